package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormAddField(t *testing.T) {
	tests := []struct {
		name    string
		field   *Field
		wantErr error
	}{
		{
			name:  "add live field",
			field: &Field{FieldID: "f1", Name: "email", Type: FieldTypeText},
		},
		{
			name:  "add field pre-stamped with this form",
			field: &Field{FieldID: "f1", FormID: "form-1", Name: "email", Type: FieldTypeText},
		},
		{
			name:    "archived field rejected",
			field:   &Field{FieldID: "f1", Name: "email", Type: FieldTypeText, Archived: true},
			wantErr: ErrFieldArchived,
		},
		{
			name:    "field from another form rejected",
			field:   &Field{FieldID: "f1", FormID: "form-2", Name: "email", Type: FieldTypeText},
			wantErr: ErrCrossForm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frm := &Form{FormID: "form-1", Title: "Signup"}

			err := frm.AddField(tt.field)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, frm.Fields, "form must be untouched on error")
			} else {
				require.NoError(t, err)
				require.Len(t, frm.Fields, 1)
				assert.Equal(t, "form-1", tt.field.FormID, "FormID should be stamped")
			}
		})
	}
}

func TestFormAddFieldDuplicate(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	f := &Field{FieldID: "f1", Name: "email", Type: FieldTypeText}

	require.NoError(t, frm.AddField(f))
	err := frm.AddField(f)
	assert.ErrorIs(t, err, ErrDuplicateField)
	assert.Len(t, frm.Fields, 1)
}

func TestFormGetFieldsOrderAndFiltering(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	a := &Field{FieldID: "a", Name: "a", Type: FieldTypeText}
	b := &Field{FieldID: "b", Name: "b", Type: FieldTypeBoolean}
	c := &Field{FieldID: "c", Name: "c", Type: FieldTypeSelect}
	for _, f := range []*Field{a, b, c} {
		require.NoError(t, frm.AddField(f))
	}

	require.NoError(t, frm.RemoveField(b))

	live := frm.GetFields(false)
	require.Len(t, live, 2)
	assert.Equal(t, "a", live[0].FieldID)
	assert.Equal(t, "c", live[1].FieldID, "insertion order preserved after filtering")

	all := frm.GetFields(true)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"},
		[]string{all[0].FieldID, all[1].FieldID, all[2].FieldID})
}

func TestFormGetFieldsEmpty(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	got := frm.GetFields(false)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFormRemoveField(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	f := &Field{FieldID: "f1", Name: "email", Type: FieldTypeText}
	require.NoError(t, frm.AddField(f))

	err := frm.RemoveField(f)
	require.NoError(t, err)
	assert.True(t, f.Archived)

	// Member stays in the sequence, archived.
	assert.True(t, frm.HasField(f))
	assert.Empty(t, frm.GetFields(false))
}

func TestFormRemoveFieldNotMember(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	err := frm.RemoveField(&Field{FieldID: "ghost"})
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestFormRemoveFieldCascadeClearsConditions(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	target := &Field{FieldID: "target", Name: "target", Type: FieldTypeText}
	dependent := &Field{FieldID: "dep", Name: "dep", Type: FieldTypeBoolean}
	bystander := &Field{FieldID: "other", Name: "other", Type: FieldTypeText}
	anchor := &Field{FieldID: "anchor", Name: "anchor", Type: FieldTypeText}
	for _, f := range []*Field{target, dependent, bystander, anchor} {
		require.NoError(t, frm.AddField(f))
	}

	require.NoError(t, dependent.SetCondition(target, nil, MatchString("x")))
	require.NoError(t, bystander.SetCondition(anchor, boolPtr(true), MatchNone()))

	require.NoError(t, frm.RemoveField(target))

	assert.Nil(t, dependent.Condition, "condition linking to removed field must be cleared")
	require.NotNil(t, bystander.Condition, "unrelated conditions must survive")
	assert.Equal(t, "anchor", bystander.Condition.LinkedFieldID)
}

// Removing a chain link clears only direct dependents: archiving G after F
// must not disturb state that no longer references G.
func TestFormRemoveFieldCascadeIsDirect(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	f := &Field{FieldID: "f", Name: "f", Type: FieldTypeText}
	g := &Field{FieldID: "g", Name: "g", Type: FieldTypeBoolean}
	h := &Field{FieldID: "h", Name: "h", Type: FieldTypeSelect}
	for _, fld := range []*Field{f, g, h} {
		require.NoError(t, frm.AddField(fld))
	}
	require.NoError(t, g.SetCondition(f, boolPtr(true), MatchNone()))
	require.NoError(t, h.SetCondition(g, nil, MatchBool(true)))

	require.NoError(t, frm.RemoveField(f))
	assert.Nil(t, g.Condition)
	assert.NotNil(t, h.Condition, "h links to g, not f; it must be untouched")

	require.NoError(t, frm.RemoveField(g))
	assert.Nil(t, h.Condition)
}

func TestFormRemoveFieldIdempotent(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	target := &Field{FieldID: "target", Name: "target", Type: FieldTypeText}
	dep := &Field{FieldID: "dep", Name: "dep", Type: FieldTypeText}
	require.NoError(t, frm.AddField(target))
	require.NoError(t, frm.AddField(dep))

	require.NoError(t, frm.RemoveField(target))

	// A condition set against an archived member is rejected at set time, but
	// a stale link could still exist in persisted data; re-removal must run
	// the cascade again.
	dep.Condition = &Condition{LinkedFieldID: "target", HasValue: boolPtr(true)}
	require.NoError(t, frm.RemoveField(target))
	assert.Nil(t, dep.Condition)
	assert.True(t, target.Archived)
}

func TestFormFieldByID(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	f := &Field{FieldID: "f1", Name: "email", Type: FieldTypeText}
	require.NoError(t, frm.AddField(f))
	require.NoError(t, frm.RemoveField(f))

	assert.Same(t, f, frm.FieldByID("f1"), "lookup covers archived members")
	assert.Nil(t, frm.FieldByID("missing"))
}

func TestFormSetArchived(t *testing.T) {
	frm := &Form{FormID: "form-1"}
	frm.SetArchived()
	assert.True(t, frm.Archived)
	frm.SetArchived()
	assert.True(t, frm.Archived)
}

// End-to-end: email -> subscribe -> cadence chain; removing subscribe clears
// only cadence's condition.
func TestFormConditionChainScenario(t *testing.T) {
	frm := &Form{FormID: "signup"}
	email := &Field{FieldID: "email", Name: "email", Type: FieldTypeText}
	subscribe := &Field{FieldID: "subscribe", Name: "subscribe", Type: FieldTypeBoolean}
	cadence := &Field{FieldID: "cadence", Name: "cadence", Type: FieldTypeSelect}
	for _, f := range []*Field{email, subscribe, cadence} {
		require.NoError(t, frm.AddField(f))
	}

	require.NoError(t, subscribe.SetCondition(email, boolPtr(true), MatchNone()))
	require.NoError(t, cadence.SetCondition(subscribe, nil, MatchBool(true)))

	require.NoError(t, frm.RemoveField(subscribe))

	assert.Nil(t, cadence.Condition, "cadence linked to subscribe; must be cleared")
	require.NotNil(t, subscribe.Condition, "the removed field keeps its own condition")
	assert.Equal(t, "email", subscribe.Condition.LinkedFieldID)
	assert.False(t, email.Archived, "email untouched")

	live := frm.GetFields(false)
	require.Len(t, live, 2)
	assert.Equal(t, "email", live[0].FieldID)
	assert.Equal(t, "cadence", live[1].FieldID)
}
