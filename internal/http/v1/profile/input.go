package profile

// CreateInput is the body of POST /profile.
type CreateInput struct {
	Body struct {
		Firstname   string `json:"firstname"   minLength:"1" maxLength:"100"     doc:"First name"       example:"John"`
		Lastname    string `json:"lastname"    minLength:"1" maxLength:"100"     doc:"Last name"        example:"Doe"`
		Email       string `json:"email"       format:"email"                    doc:"Email address"    example:"john@example.com"`
		PhoneNumber string `json:"phoneNumber" pattern:"^\\+[1-9]\\d{6,14}$"     doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   bool   `json:"marketing"   required:"false"                  doc:"Marketing opt-in" example:"true"`
		Terms       bool   `json:"terms"                                         doc:"Terms acceptance" example:"true"`
	}
}

// UpdateInput is the body of PATCH /profile. Omitted fields are unchanged.
type UpdateInput struct {
	Body struct {
		Firstname   *string `json:"firstname,omitempty"   minLength:"1" maxLength:"100"  doc:"First name"       example:"John"`
		Lastname    *string `json:"lastname,omitempty"    minLength:"1" maxLength:"100"  doc:"Last name"        example:"Doe"`
		Email       *string `json:"email,omitempty"       format:"email"                 doc:"Email address"    example:"john@example.com"`
		PhoneNumber *string `json:"phoneNumber,omitempty" pattern:"^\\+[1-9]\\d{6,14}$"  doc:"Phone (E.164)"    example:"+358401234567"`
		Marketing   *bool   `json:"marketing,omitempty"                                  doc:"Marketing opt-in" example:"true"`
	}
}

func (in *UpdateInput) empty() bool {
	b := in.Body
	return b.Firstname == nil && b.Lastname == nil && b.Email == nil && b.PhoneNumber == nil && b.Marketing == nil
}
