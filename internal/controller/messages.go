package controller

// User-facing notification messages. They explain failures in general terms
// and never carry raw error detail.
const (
	MsgFillAllFields = "Please fill in all fields"

	MsgCreated      = "Task added successfully!"
	MsgCreateFailed = "Failed to add task"

	MsgUpdated      = "Task updated successfully!"
	MsgUpdateFailed = "Failed to update task"

	MsgToggled      = "Status updated!"
	MsgToggleFailed = "Failed to update status"

	MsgDeleted      = "Task deleted successfully!"
	MsgDeleteFailed = "Failed to delete task"

	MsgLoadFailed     = "Failed to load notes"
	MsgLoadNoteFailed = "Failed to load task"
	MsgLogoutFailed   = "Failed to log out"
)
