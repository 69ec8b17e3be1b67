package requests

type CreateUserRequest struct {
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	VillageName *string `json:"village_name,omitempty"`
}

type UpdateRoleRequest struct {
	NewRole string `json:"new_role"`
}

type UpdateStatusRequest struct {
	NewStatus string `json:"new_status"`
}

type SubmitProfileRequest struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	VillageName     *string         `json:"village_name,omitempty"`
	CurrentLocation *string         `json:"current_location,omitempty"`
	Bio             *string         `json:"bio,omitempty"`
	FieldVisibility map[string]bool `json:"field_visibility,omitempty"`
}

type UpsertSectionRequest struct {
	PageName     string  `json:"page_name"`
	SectionKey   string  `json:"section_key"`
	Title        *string `json:"title,omitempty"`
	Content      *string `json:"content,omitempty"`
	Status       string  `json:"status,omitempty"`
	ScheduledFor *string `json:"scheduled_for,omitempty"`
}

type CreatePostRequest struct {
	Page     string  `json:"page"`
	Title    string  `json:"title"`
	Slug     *string `json:"slug,omitempty"`
	Content  string  `json:"content"`
	Category *string `json:"category,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

type ScheduleContentRequest struct {
	ScheduledFor string `json:"scheduled_for"`
}

type IssueOTPRequest struct {
	Email string `json:"email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
