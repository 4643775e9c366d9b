package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidation_ErrNilWhenEmpty(t *testing.T) {
	v := NewValidation()
	assert.True(t, v.Empty())
	assert.NoError(t, v.Err())
}

func TestValidation_CollectsPerField(t *testing.T) {
	v := NewValidation()
	v.Add("name", "This field is required.")
	v.Add("birth_day", "This field is required.")
	v.Add("name", "Ensure this field has no more than 100 characters.")

	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	fields := FieldsOf(err)
	assert.Len(t, fields["name"], 2)
	assert.Equal(t, []string{"This field is required."}, fields["birth_day"])
}

func TestValidation_ErrIsDetachedFromBuilder(t *testing.T) {
	v := NewValidation()
	v.Add("a", "x")
	err := v.Err()
	v.Add("b", "y")

	assert.NotContains(t, FieldsOf(err), "b")
}

func TestValidation_Merge(t *testing.T) {
	v := NewValidation()
	v.Merge(nil)
	v.Merge(Invalid("weight_kg", "A valid number is required."))
	v.Merge(BadRequest("invalid json"))
	v.Merge(errors.New("boom"))

	fields := FieldsOf(v.Err())
	assert.Equal(t, []string{"A valid number is required."}, fields["weight_kg"])
	assert.Equal(t, []string{"invalid json", "boom"}, fields["non_field_errors"])
}

func TestKinds_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("get pet: %w", NotFound("pet"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "get pet: pet not found", err.Error())

	assert.True(t, errors.Is(Unauthenticated("x"), ErrUnauthenticated))
	assert.True(t, errors.Is(Conflict("x"), ErrConflict))
}

func TestError_MessageListsFieldsSorted(t *testing.T) {
	v := NewValidation()
	v.Add("b", "second")
	v.Add("a", "first")
	assert.Equal(t, "invalid input (a: first, b: second)", v.Err().Error())
}
