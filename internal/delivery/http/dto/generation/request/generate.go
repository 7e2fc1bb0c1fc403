package request

type GenerateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}
