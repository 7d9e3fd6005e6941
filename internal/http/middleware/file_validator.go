package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/portfolio-backend/internal/models"
)

// FileParamValidator проверяет, что параметр пути содержит имя одного из
// девяти документов контента. Любой другой путь отклоняется до хендлера.
// Использование: router.GET("/content/:file", FileParamValidator("file"), handler.GetFile)
func FileParamValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param(paramName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "параметр " + paramName + " обязателен",
			})
			c.Abort()
			return
		}

		if !models.AllowedFile(name) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "недопустимое имя файла: " + name,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
