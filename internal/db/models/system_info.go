package models

const (
	// StateActive marks an entry that is in use.
	StateActive = "active"
	// StateDeleted marks an entry as soft deleted. Entries removed through the store are
	// deleted physically, the state only mirrors the convention used by other tables.
	StateDeleted = "deleted"

	// SystemInfoKeyMaxLen is the maximum number of characters in a system info key.
	SystemInfoKeyMaxLen = 100
)

// SystemInfo is a runtime-editable key/value configuration entry.
type SystemInfo struct {
	ID    uint64  `gorm:"primaryKey"                    json:"id"`
	Key   string  `gorm:"size:100;uniqueIndex;not null" json:"key"`
	Value *string `gorm:"type:text"                     json:"value"`
	State string  `gorm:"type:text;default:'active'"    json:"state"`
}

// TableName returns the table name for SystemInfo.
func (SystemInfo) TableName() string {
	return "system_info"
}

// NewSystemInfo creates an active entry for key holding value.
func NewSystemInfo(key, value string) *SystemInfo {
	return &SystemInfo{
		Key:   key,
		Value: &value,
		State: StateActive,
	}
}

// StringValue returns the stored value, or an empty string if the value is NULL.
func (s *SystemInfo) StringValue() string {
	if s == nil || s.Value == nil {
		return ""
	}

	return *s.Value
}
