package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stresszero/quizbot-service/internal/content"
	"github.com/stresszero/quizbot-service/internal/utils"
)

type ContentHandler struct {
	BaseHandler
	acquirer *content.Acquirer
}

func NewContentHandler(acquirer *content.Acquirer, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: NewBaseHandler(logger),
		acquirer:    acquirer,
	}
}

// UploadMaterial stores an uploaded document and returns the material
// reference to use in a generation request
func (h *ContentHandler) UploadMaterial(c *gin.Context) {
	h.LogRequest(c, "Uploading material")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file",
			Details: err.Error(),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.LogError(c, err, "Failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to read upload",
		})
		return
	}
	defer file.Close()

	path, err := h.acquirer.SaveUpload(file, fileHeader.Filename)
	if errors.Is(err, content.ErrUnsupportedFile) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported file format, expected pdf, txt, docx or md",
			Details: err.Error(),
		})
		return
	}
	if err != nil {
		h.LogError(c, err, "Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to save upload",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Material uploaded",
		Data: gin.H{
			"material": path,
			"is_file":  true,
		},
	})
}

// LookupWikipedia resolves a keyword to its Wikipedia page URL
func (h *ContentHandler) LookupWikipedia(c *gin.Context) {
	keyword := c.Query("keyword")
	h.LogRequest(c, "Looking up wikipedia keyword", "keyword", keyword)

	url, err := h.acquirer.WikipediaURL(c.Request.Context(), keyword)
	if errors.Is(err, content.ErrPageNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Could not find the keyword on Wikipedia. Please try another keyword.",
		})
		return
	}
	if err != nil {
		h.LogError(c, err, "Wikipedia lookup failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Wikipedia lookup failed",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Wikipedia page found",
		Data: gin.H{
			"material": url,
			"is_file":  false,
		},
	})
}
