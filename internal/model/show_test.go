package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestShowOnSale(t *testing.T) {
    assert.True(t, ShowOnSale(ShowStatusScheduled))
    assert.False(t, ShowOnSale(ShowStatusCancelled))
    assert.False(t, ShowOnSale(ShowStatusArchived))
    assert.False(t, ShowOnSale(""))
}
