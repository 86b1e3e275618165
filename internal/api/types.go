package api

import "time"

// Customer is a complaint's customer as returned by the backend.
type Customer struct {
	ID        int       `json:"ID"`
	Name      string    `json:"Name"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// User is a registered user of the complaint system.
type User struct {
	ID    int    `json:"ID"`
	Email string `json:"Email"`
	Name  string `json:"Name"`
}

// Category groups complaints by subject.
type Category struct {
	ID   int    `json:"ID"`
	Name string `json:"Name"`
}

// Comment is one entry in a complaint's comment thread.
type Comment struct {
	ID          int       `json:"ID"`
	Comment     string    `json:"Comment"`
	ComplaintID int       `json:"ComplaintID"`
	CreatedAt   time.Time `json:"CreatedAt"`
	CreatedBy   *User     `json:"CreatedBy,omitempty"`
}

// Complaint is the central tracked entity.
type Complaint struct {
	ID            int        `json:"ID"`
	Description   string     `json:"Description"`
	Customer      Customer   `json:"Customer"`
	Category      Category   `json:"Category"`
	CreatedAt     time.Time  `json:"CreatedAt"`
	ModifiedAt    time.Time  `json:"ModifiedAt"`
	CreatedBy     *User      `json:"CreatedBy,omitempty"`
	Priority      Priority   `json:"Priority"`
	Status        Status     `json:"Status"`
	ComplaintDate *time.Time `json:"complaint_date,omitempty"`
	Comments      []Comment  `json:"Comments"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the user-facing registration input. The backend receives
// a single name built from FirstName and LastName.
type RegisterRequest struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// ComplaintForm holds every field of the complaint form.
type ComplaintForm struct {
	CustomerName string    `json:"customername"`
	Description  string    `json:"description"`
	Date         time.Time `json:"date"`
	Priority     Priority  `json:"priority"`
	Status       Status    `json:"status"`
	Category     int       `json:"category"`
}

// DefaultCategoryID is the category preselected on a new complaint form.
const DefaultCategoryID = 4

// CommentRequest is the body of a comment creation call.
type CommentRequest struct {
	ComplaintID int    `json:"-"`
	Comment     string `json:"comment"`
}
