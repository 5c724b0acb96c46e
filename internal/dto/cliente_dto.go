package dto

type ClienteRequest struct {
	Nombre       string `json:"name"       validate:"required,max=60"`
	Apellido     string `json:"surname"    validate:"max=60"`
	Telefono     string `json:"phone"      validate:"max=30"`
	Departamento string `json:"department" validate:"max=120"`
}

type ClienteFilter struct {
	Q string `form:"q"`
}
