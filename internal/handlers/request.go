package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/middleware"
	"github.com/hsmith-dev/Trasker-WebApp/internal/services"
	"github.com/hsmith-dev/Trasker-WebApp/internal/utils"
	"github.com/hsmith-dev/Trasker-WebApp/internal/visibility"
)

// optional distinguishes an absent JSON field from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// ownerRequest is embedded by create requests of owned records.
type ownerRequest struct {
	TeamID   *uint64 `json:"team_id"`
	Personal bool    `json:"personal"`
}

func (r ownerRequest) input() services.OwnerInput {
	return services.OwnerInput{TeamID: r.TeamID, Personal: r.Personal}
}

// requireVisibility fetches the context set by RequireAuth.
func requireVisibility(c *gin.Context) (visibility.Context, bool) {
	vis, ok := middleware.GetVisibility(c)
	if !ok {
		apierrors.Unauthorized(c, "")
	}
	return vis, ok
}

// parseID reads a numeric path parameter.
func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID reads an optional numeric query parameter.
func queryID(c *gin.Context, name string) (*uint64, bool) {
	value := c.Query(name)
	if value == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &id, true
}

// dateRange parses optional start and end dates.
func dateRange(c *gin.Context, start, end *string) (services.DateRange, bool) {
	var r services.DateRange
	var err error
	if start != nil {
		if r.Start, err = utils.ParseOptionalDate(*start); err != nil {
			apierrors.BadRequest(c, err.Error())
			return r, false
		}
	}
	if end != nil {
		if r.End, err = utils.ParseOptionalDate(*end); err != nil {
			apierrors.BadRequest(c, err.Error())
			return r, false
		}
	}
	return r, true
}

// dateUpdate converts an optional date field: null or "" clears it.
func dateUpdate(c *gin.Context, field optional[string]) (services.DateUpdate, bool) {
	if !field.Set {
		return services.DateUpdate{}, true
	}
	if field.Value == nil || *field.Value == "" {
		return services.DateUpdate{Clear: true}, true
	}
	t, err := utils.ParseDate(*field.Value)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return services.DateUpdate{}, false
	}
	return services.DateUpdate{Value: &t}, true
}

// idUpdate converts an optional reference field: null clears it.
func idUpdate(field optional[uint64]) services.IDUpdate {
	if !field.Set {
		return services.IDUpdate{}
	}
	if field.Value == nil {
		return services.IDUpdate{Clear: true}
	}
	return services.IDUpdate{Value: field.Value}
}
