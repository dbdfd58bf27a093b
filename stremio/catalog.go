package stremio

type MetaPreview struct {
	Id          string      `json:"id"`
	Type        ContentType `json:"type"`
	Name        string      `json:"name"`
	Poster      string      `json:"poster,omitempty"`
	Description string      `json:"description,omitempty"`
}

type CatalogHandlerResponse struct {
	Metas []MetaPreview `json:"metas"`
}
