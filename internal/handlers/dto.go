package handlers

// PdfDataRequest is the body of POST /pdf-data
type PdfDataRequest struct {
	TemplateID  int    `json:"template_id" binding:"required"`
	PreviewHTML string `json:"preview_html" binding:"required"`
}

// CVExportRequest is the optional body of POST /cvs/:id/pdf-data
type CVExportRequest struct {
	TemplateID int `json:"template_id"`
}

// CVRequest is the body of POST /cvs and PUT /cvs/:id
type CVRequest struct {
	Title       string `json:"title" binding:"required"`
	TemplateID  int    `json:"template_id"`
	PreviewHTML string `json:"preview_html"`
}

// SuggestionRequest is the body of POST /suggestions
type SuggestionRequest struct {
	Section string `json:"section"`
	Text    string `json:"text" binding:"required"`
}

// SuggestionResponse is returned by POST /suggestions
type SuggestionResponse struct {
	Suggestion string `json:"suggestion"`
}
