package hello

// CreateInput is the body of a greeting request.
type CreateInput struct {
	Body struct {
		Name string `json:"name" doc:"Name to greet" example:"Ada" minLength:"1" maxLength:"100"`
	}
}

// NameInput greets the name in the path.
type NameInput struct {
	Name string `path:"name" doc:"Name to greet" example:"Ada" maxLength:"100"`
}
