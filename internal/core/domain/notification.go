package domain

// Notification is a user-facing failure report from an interactive task.
type Notification struct {
	Title   string
	Message string
	// File and Line locate the failure when the compiler reported them.
	File string
	Line int
}
