package bot

const (
	StepPayee   = "payee"
	StepAmount  = "amount"
	StepDate    = "date"
	StepDetails = "details"
)

type FormState struct {
	Step      string
	ChatID    int64
	Payee     string
	Amount    int64
	EventDate string
}
