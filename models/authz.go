package models

import (
	"context"

	"github.com/takabooks/shops_backend/utils"
)

// authorize is the single ownership gate invoked before every mutating call:
// the context user must match the resource's owning user id. Creations pass
// the input's owner id and an empty resource id.
func authorize(ctx context.Context, resourceUserId string, resource string, id string) error {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == "" {
		return utils.ValidationError("user id is required in context")
	}
	if resourceUserId != userId {
		return utils.PermissionDeniedError(resource, id)
	}
	return nil
}
