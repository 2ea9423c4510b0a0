package domain

// VARSheet carries the merchant and acquirer routing metadata some
// processors require. All fields are opaque codes validated for presence
// and basic format only; the sheet is immutable once attached.
type VARSheet struct {
	MerchantNumber string `json:"merchant_number" validate:"required"`
	AcquirerBIN    string `json:"acquirer_bin" validate:"required,numeric"`
	StoreNumber    string `json:"store_number" validate:"required"`
	TerminalNumber string `json:"terminal_number" validate:"required"`
	MCC            string `json:"mcc" validate:"required,numeric,len=4"`
	LocationNumber string `json:"location_number" validate:"required"`
	VitalNumber    string `json:"vital_number" validate:"required"`
	AgentBank      string `json:"agent_bank" validate:"required"`
	AgentChain     string `json:"agent_chain" validate:"required"`
}

func (v *VARSheet) clone() *VARSheet {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
