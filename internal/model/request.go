package model

// Address is a postal address as supplied by an upstream holder record.
type Address struct {
	Street  string `json:"street,omitempty"`
	Street2 string `json:"street2,omitempty"`
	Street3 string `json:"street3,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
}

// IsEmpty reports whether no field of the address is populated.
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.Street2 == "" && a.Street3 == "" &&
		a.City == "" && a.State == "" && a.Zip == ""
}

// AddressSourcePropertyMailing marks an address that came from a property
// mailing record rather than a verified registered-agent filing. Mailing
// addresses are weaker evidence and downgrade location quality.
const AddressSourcePropertyMailing = "property_mailing"

// ResolutionRequest is the immutable input to one resolution run.
type ResolutionRequest struct {
	BusinessName            string   `json:"business_name"`
	State                   string   `json:"state"`
	HolderNameOnRecord      string   `json:"holder_name_on_record,omitempty"`
	HolderKnownAddress      *Address `json:"holder_known_address,omitempty"`
	AddressSource           string   `json:"address_source,omitempty"`
	LastActivityDate        string   `json:"last_activity_date,omitempty"`
	PropertyReportYear      int      `json:"property_report_year,omitempty"`
	City                    string   `json:"city,omitempty"`
	OwnerRelation           string   `json:"owner_relation,omitempty"`
	PropertyTypeDescription string   `json:"property_type_description,omitempty"`
}
