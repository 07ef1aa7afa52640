package dto

// WorkshopRequest is the body of the workshop create and update endpoints.
// A workshopImage file may be attached when sent as a multipart form.
type WorkshopRequest struct {
	Title       string `json:"title" form:"title" binding:"required,notblank,max=200" example:"Interview Skills"`
	Description string `json:"description" form:"description" binding:"max=4000" example:"A hands-on session on technical interviews"`
	Venue       string `json:"venue" form:"venue" binding:"required,notblank" example:"Colombo"`
	Date        string `json:"date" form:"date" binding:"required,datetime=2006-01-02" example:"2025-06-01"`
}
