package dto

// AddOrganizerRequest attaches an existing organizer account to the calling organization
type AddOrganizerRequest struct {
	OrganizerEmail string `json:"organizerEmail" binding:"required,email" example:"organizer@college.edu"`
}

// OrganizationListResponse lists the organizations an organizer acts for
type OrganizationListResponse struct {
	Organizations []UserResponse `json:"organizations"`
}

// OrganizerListResponse lists the organizers of an organization
type OrganizerListResponse struct {
	Organizers []UserResponse `json:"organizers"`
}
