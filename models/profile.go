package models

// EmployeeProfile is the header snapshot fetched once per session after the
// employee id is captured. The json tags match the upstream OData entity so
// the gateway can unmarshal the `d` payload directly.
type EmployeeProfile struct {
	Pernr      string `json:"PERNR"`
	Mobile     string `json:"MOBILE"`
	PayMode    string `json:"PAYMODE"`
	DOB        string `json:"DOB"`
	Sex        string `json:"SEX"`
	Age        string `json:"AGE"`
	Email      string `json:"EMAIL"`
	FirstName  string `json:"FNAME"`
	LastName   string `json:"LNAME"`
	MiddleName string `json:"MNAME"`
	Title      string `json:"TITLE"`
	Persk      string `json:"PERSK"`
	Persa      string `json:"PERSA"`
}
