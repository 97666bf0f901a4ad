package log

// Field names shared by components that log through Logger.
const (
	FieldUserEmail = "user_email"
	FieldVessel    = "vessel"
)

// Component names for WithComponent.
const (
	ComponentApp  = "app"
	ComponentAuth = "auth"
)
