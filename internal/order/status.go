package order

// Status is the workflow stage of an order.
type Status string

const (
	StatusReception  Status = "RECEPTION"
	StatusDiagnosis  Status = "DIAGNOSIS"
	StatusQuote      Status = "QUOTE"
	StatusAuthorized Status = "AUTHORIZED"
	StatusInRepair   Status = "IN_REPAIR"
	StatusFinished   Status = "FINISHED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// transitions is the allowed forward edges of the workflow. Cancellation is
// allowed from any stage before delivery.
var transitions = map[Status][]Status{
	StatusReception:  {StatusDiagnosis, StatusCancelled},
	StatusDiagnosis:  {StatusQuote, StatusCancelled},
	StatusQuote:      {StatusAuthorized, StatusCancelled},
	StatusAuthorized: {StatusInRepair, StatusCancelled},
	StatusInRepair:   {StatusFinished, StatusCancelled},
	StatusFinished:   {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known workflow stage.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the workflow allows moving from s to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanEditItems reports whether line items and the summary inputs may still be
// changed. After authorization the quote is locked.
func (s Status) CanEditItems() bool {
	switch s {
	case StatusReception, StatusDiagnosis, StatusQuote:
		return true
	}
	return false
}
