package hello

// Greeting is the hello payload.
type Greeting struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello, World!"`
}
