package model

// ServiceListing is owned by the external catalog/ranking service. This
// subsystem reads listings but never writes them.
type ServiceListing struct {
	ID          string        `json:"id" bson:"_id"`
	VendorID    string        `json:"vendor_id" bson:"vendor_id"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Category    string        `json:"category" bson:"category"`
	Pricing     Pricing       `json:"pricing" bson:"pricing"`
	Vendor      VendorSummary `json:"vendor" bson:"vendor"`
	Featured    bool          `json:"featured" bson:"featured"`
}

type PricingType string

const (
	PricingFixed       PricingType = "FIXED"
	PricingHourly      PricingType = "HOURLY"
	PricingPerPerson   PricingType = "PER_PERSON"
	PricingCustomQuote PricingType = "CUSTOM_QUOTE"
)

type Pricing struct {
	Type      PricingType `json:"type" bson:"type"`
	BasePrice *float64    `json:"base_price,omitempty" bson:"base_price,omitempty"`
	Currency  string      `json:"currency" bson:"currency"`
}

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

type VendorSummary struct {
	ID                 string             `json:"id" bson:"id"`
	BusinessName       string             `json:"business_name" bson:"business_name"`
	VerificationStatus VerificationStatus `json:"verification_status" bson:"verification_status"`
	Rating             float64            `json:"rating" bson:"rating"`
	ReviewCount        int                `json:"review_count" bson:"review_count"`
}
