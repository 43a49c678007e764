package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRetriesExhaustedHidesDriverError(t *testing.T) {
	driverErr := errors.New("UNIQUE constraint failed: orders.order_number")

	err := retriesExhausted("Could not assign an order number, please retry", maxNumberAttempts, driverErr)

	assert.Equal(t, "Could not assign an order number, please retry", err.Error())
	assert.NotContains(t, err.Error(), "UNIQUE")
	assert.NotContains(t, err.Error(), "orders.order_number")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: paper_sizes.name")))
	assert.False(t, isUniqueViolation(errors.New("disk I/O error")))
}

func TestStorageErrKeepsTypedErrors(t *testing.T) {
	nf := &NotFoundError{Resource: "Order"}
	assert.Same(t, nf, storageErr("get order", nf))

	wrapped := storageErr("get order", errors.New("boom"))
	var se *StorageError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, "get order", se.Op)
	assert.Nil(t, storageErr("noop", nil))
}
