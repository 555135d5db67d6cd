package dto

type UploadedFileResponse struct {
	Filename     string `json:"filename"`
	Originalname string `json:"originalname"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
	Mimetype     string `json:"mimetype"`
}

type UploadResponse struct {
	Files []UploadedFileResponse `json:"files"`
	Campo string                 `json:"campo,omitempty"`
}
