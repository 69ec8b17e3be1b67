package responses

import "time"

type FinanceRecordResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Amount          int64      `json:"amount"`
	TransactionType string     `json:"transaction_type"`
	PaymentStatus   string     `json:"payment_status"`
	TransactionDate time.Time  `json:"transaction_date"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	PaymentMethod   *string    `json:"payment_method,omitempty"`
	ReceiptNumber   *string    `json:"receipt_number,omitempty"`
	Description     *string    `json:"description,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	VillageName *string    `json:"village_name,omitempty"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ProfileResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	VillageName     *string    `json:"village_name,omitempty"`
	CurrentLocation *string    `json:"current_location,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	Status          string     `json:"status"`
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// VisibleProfileResponse is the networking view: only the fields the owner
// chose to expose.
type VisibleProfileResponse struct {
	UserID string                 `json:"user_id"`
	Fields map[string]interface{} `json:"fields"`
}

type ContentSectionResponse struct {
	ID           string     `json:"id"`
	PageName     string     `json:"page_name"`
	SectionKey   string     `json:"section_key"`
	Title        *string    `json:"title,omitempty"`
	Content      *string    `json:"content,omitempty"`
	Status       string     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ContentPostResponse struct {
	ID           string     `json:"id"`
	Page         string     `json:"page"`
	Title        string     `json:"title"`
	Slug         *string    `json:"slug,omitempty"`
	Content      string     `json:"content"`
	Category     *string    `json:"category,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	Status       string     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	AuthorID     string     `json:"author_id"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type AuditLogResponse struct {
	ID           string                 `json:"id"`
	ActorUserID  *string                `json:"actor_user_id,omitempty"`
	ActionType   string                 `json:"action_type"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   *string                `json:"resource_id,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

type OTPIssuedResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
