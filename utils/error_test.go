package utils_test

import (
	"errors"
	"testing"

	"github.com/takabooks/shops_backend/utils"
)

func TestStoreError_KeepsBothKinds(t *testing.T) {
	cause := errors.New("connection reset")
	err := utils.StoreError("delete sale", cause)

	if !errors.Is(err, utils.ErrStore) {
		t.Fatalf("not an ErrStore: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("lost the underlying cause: %v", err)
	}
}

func TestErrorKinds_AreDistinct(t *testing.T) {
	if errors.Is(utils.NotFoundError("shop", "x"), utils.ErrPermissionDenied) {
		t.Fatal("NotFound matched PermissionDenied")
	}
	if !errors.Is(utils.NotFoundError("shop", "x"), utils.ErrRecordNotFound) {
		t.Fatal("NotFound did not match ErrRecordNotFound")
	}
	if !errors.Is(utils.ValidationError("missing %s", "ownerId"), utils.ErrValidation) {
		t.Fatal("ValidationError did not match ErrValidation")
	}
	if !errors.Is(utils.PermissionDeniedError("sale", "x"), utils.ErrPermissionDenied) {
		t.Fatal("PermissionDeniedError did not match ErrPermissionDenied")
	}
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		UserId string `validate:"required"`
		Qty    int    `validate:"gt=0"`
	}

	if err := utils.ValidateStruct(&input{UserId: "u", Qty: 1}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}
	if err := utils.ValidateStruct(&input{Qty: 1}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("missing field: err=%v, want ErrValidation", err)
	}
	if err := utils.ValidateStruct(&input{UserId: "u", Qty: 0}); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("bad qty: err=%v, want ErrValidation", err)
	}
}

func TestRequireField(t *testing.T) {
	if err := utils.RequireField("owner id", ""); !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("blank field: err=%v, want ErrValidation", err)
	}
	if err := utils.RequireField("owner id", "u1"); err != nil {
		t.Fatalf("non-blank field rejected: %v", err)
	}
}
