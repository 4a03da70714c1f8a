package dto

// CreatePaymentIntentRequest is the body for POST /create-payment-intent
type CreatePaymentIntentRequest struct {
	Price float64 `json:"price"`
}

// CreatePaymentIntentResponse carries the client-usable charge handle
type CreatePaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// CommitEnrollmentRequest is the completed-payment payload for POST /payments
type CommitEnrollmentRequest struct {
	SelectedClassID string  `json:"selectedClassId" binding:"required"`
	ClassID         string  `json:"classId" binding:"required"`
	Email           string  `json:"email" binding:"required,email"`
	ClassName       string  `json:"className"`
	Price           float64 `json:"price"`
	Image           string  `json:"image"`
	Instructor      string  `json:"instructor"`
	TransactionID   string  `json:"transactionId"`
	Date            string  `json:"date"`
}

// InsertResult mirrors the shape callers of the original API expect for
// a single-document insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId,omitempty"`
}

// DeleteResult mirrors a single-document delete outcome
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateResult mirrors a single-document update outcome
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// CommitEnrollmentResponse reports the four sub-operations of a commit.
// The steps run in one transaction, so a response always describes a fully
// applied commit; partial outcomes surface as errors instead.
type CommitEnrollmentResponse struct {
	InsertResult        InsertResult `json:"insertResult"`
	DeleteResult        DeleteResult `json:"deleteResult"`
	EnrolledClassResult InsertResult `json:"enrolledClassResult"`
	UpdateResult        UpdateResult `json:"updateResult"`
	AlreadyProcessed    bool         `json:"alreadyProcessed,omitempty"`
}
