package client

// REST endpoints consumed by the client. The casing is uneven because it
// mirrors the deployed API surface exactly.
const (
	endpointLogin    = "/auth/login"
	endpointRegister = "/auth/register"
	endpointLogout   = "/auth/logout"

	endpointGetTasks   = "/task/gettask"
	endpointCreateTask = "/task/createtask"
	endpointUpdateTask = "/task/Update"
	endpointDeleteTask = "/task/delete"

	endpointProfile        = "/User/me"
	endpointUpdateProfile  = "/User/updateprofile"
	endpointChangePassword = "/User/update-password"

	endpointUserList   = "/user/userlist"
	endpointUserStatus = "/user/updatestatus"

	endpointOrganizations = "/organizations"
)
