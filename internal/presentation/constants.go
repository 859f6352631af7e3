package presentation

const (
	IDParam   = "id"
	ReasonTag = "X-Reason"

	FileField        = "file"
	TitleField       = "title"
	DescriptionField = "description"

	PageQuery   = "page"
	LimitQuery  = "limit"
	StatusQuery = "status"
	SearchQuery = "search"

	APIPrefix = "/api/v1"
)
