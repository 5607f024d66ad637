package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// ownedStore is the part of the entity services shared by every owned record.
type ownedStore[T any] interface {
	Get(ctx context.Context, vis visibility.Context, id uint64) (*T, error)
	Delete(ctx context.Context, vis visibility.Context, id uint64) error
}

func getOwned[T, D any](c *gin.Context, store ownedStore[T], toDTO func(T) D) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := store.Get(c.Request.Context(), vis, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDTO(*record))
}

func deleteOwned[T any](c *gin.Context, store ownedStore[T]) {
	vis, ok := requireVisibility(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := store.Delete(c.Request.Context(), vis, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted successfully"})
}

// respondRecord writes a created or updated record.
func respondRecord[T, D any](c *gin.Context, status int, record *T, err error, toDTO func(T) D) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, toDTO(*record))
}

// respondList writes records under key.
func respondList[T, D any](c *gin.Context, key string, records []T, err error, toDTO func(T) D) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: dto.MapSlice(records, toDTO)})
}
