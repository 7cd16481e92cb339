package pagination

type Pagination struct {
	PageSize int `form:"page_size,default=50" validate:"gte=1,lte=250"`
	Offset   int `form:"offset,default=0" validate:"gte=0"`
}

type PageInfo struct {
	HasMore bool `json:"has_more"`
}
