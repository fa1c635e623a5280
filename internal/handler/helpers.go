package handler

import (
	"anoa.com/tradeaid/internal/service"
	pkgvalidator "anoa.com/tradeaid/pkg/validator"
	"github.com/gin-gonic/gin"
)

func formatValidationError(err error) string {
	return pkgvalidator.FormatValidationError(err)
}

// formFile loads the optional named multipart file into an UploadFile. The
// returned cleanup must be called after the service has consumed the reader.
func formFile(c *gin.Context, field string) (*service.UploadFile, func(), error) {
	fileHeader, err := c.FormFile(field)
	if err != nil || fileHeader == nil {
		return nil, func() {}, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, func() {}, err
	}

	upload := &service.UploadFile{
		Reader:   file,
		FileName: fileHeader.Filename,
	}

	return upload, func() { _ = file.Close() }, nil
}
