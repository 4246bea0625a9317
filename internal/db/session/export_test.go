package session

// FinishTransaction commits the open transaction without the session noticing,
// leaving the session with a transaction the driver already closed.
func FinishTransaction(s *Session) error {
	return s.tx.Commit().Error
}
