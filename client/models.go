package client

// Member is a participant slot inside a group. A user claims a slot by
// joining; the zero Member (ID 0) stands for "nothing selected".
type Member struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
	UserID  *int    `json:"userId,omitempty"`
}

// Participation records what one member paid and owes on a receipt
type Participation struct {
	ID        int     `json:"id,omitempty"`
	MemberID  int     `json:"memberId"`
	ReceiptID int     `json:"receiptId,omitempty"`
	Paid      float64 `json:"paid"`
	Owed      float64 `json:"owed"`
}

// Receipt is a shared expense inside a group
type Receipt struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	GroupID        *int            `json:"groupId,omitempty"`
	Participations []Participation `json:"participations,omitempty"`
	TotalPaid      *float64        `json:"totalPaid,omitempty"`
}

// Group represents a group of people sharing expenses
type Group struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Members     []Member  `json:"members,omitempty"`
	Receipts    []Receipt `json:"receipts,omitempty"`
}

// DescriptionText returns the description or an empty string
func (g Group) DescriptionText() string {
	if g.Description == nil {
		return ""
	}
	return *g.Description
}

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up request body
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by the login and register endpoints
type AuthResponse struct {
	UserID int    `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// NewGroup is the create-group request body
type NewGroup struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// NewReceipt is the create-receipt request body
type NewReceipt struct {
	Name           string          `json:"name"`
	Description    *string         `json:"description,omitempty"`
	GroupID        int             `json:"groupId"`
	Participations []Participation `json:"participations"`
}

// ErrorResponse is the JSON body the API sends with failed requests
type ErrorResponse struct {
	Message *string `json:"message"`
}
