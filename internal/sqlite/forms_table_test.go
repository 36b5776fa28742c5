// Tests for form and field persistence: aggregate round-trips, display
// ordering, condition columns, and delete cascades.
package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldwright/formdef/pkg/types"
)

// setupBackend creates an attached Backend over a temp data directory and
// registers its detach as cleanup.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestFormsTable_RoundTrip(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	subscribed := &types.Field{Name: "subscribed", Type: types.FieldTypeBoolean}
	frm := &types.Form{
		Title:       "Newsletter signup",
		Description: "Collects subscriber details",
	}
	require.NoError(t, frm.AddField(&types.Field{Name: "email", Type: types.FieldTypeText}))
	require.NoError(t, frm.AddField(subscribed))
	require.NoError(t, frm.AddField(&types.Field{Name: "plan", Type: types.FieldTypeSelect}))
	require.NoError(t, frm.AddField(&types.Field{Name: "avatar", Type: types.FieldTypeFile}))

	// Third field only shows when the subscription box is ticked.
	subscribed.FieldID = "field-subscribed"
	require.NoError(t, frm.Fields[2].SetCondition(subscribed, nil, types.MatchBool(true)))

	id, err := tbl.Set("", frm)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entity, err := tbl.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Form)

	assert.Equal(t, "Newsletter signup", got.Title)
	assert.Equal(t, "Collects subscriber details", got.Description)
	require.Len(t, got.Fields, 4)

	// Insertion order survives the round-trip.
	names := make([]string, 0, len(got.Fields))
	for _, f := range got.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"email", "subscribed", "plan", "avatar"}, names)

	// Condition columns rebuild the linked condition.
	cond := got.Fields[2].Condition
	require.NotNil(t, cond)
	assert.Equal(t, "field-subscribed", cond.LinkedFieldID)
	require.NotNil(t, cond.MatchValueBool)
	assert.True(t, *cond.MatchValueBool)
	assert.Nil(t, cond.HasValue)
	assert.Nil(t, cond.MatchValueStr)
	assert.Nil(t, cond.MatchValueInt)
}

func TestFormsTable_RoundTripFalseMatch(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	opted := &types.Field{FieldID: "field-opted", Name: "opted_out", Type: types.FieldTypeBoolean}
	frm := &types.Form{Title: "Preferences"}
	require.NoError(t, frm.AddField(opted))
	require.NoError(t, frm.AddField(&types.Field{Name: "cadence", Type: types.FieldTypeSelect}))
	require.NoError(t, frm.Fields[1].SetCondition(opted, nil, types.MatchBool(false)))

	id, err := tbl.Set("", frm)
	require.NoError(t, err)

	entity, err := tbl.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Form)

	// A false match value must persist, not vanish.
	cond := got.Fields[1].Condition
	require.NotNil(t, cond)
	require.NotNil(t, cond.MatchValueBool)
	assert.False(t, *cond.MatchValueBool)
}

func TestFormsTable_SetRequiresTitle(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	_, err = tbl.Set("", &types.Form{})
	assert.ErrorIs(t, err, types.ErrInvalidName)
}

func TestFormsTable_SetRejectsUnknownFieldType(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	frm := &types.Form{
		Title:  "Broken",
		Fields: []*types.Field{{Name: "x", Type: "slider"}},
	}
	_, err = tbl.Set("", frm)
	assert.ErrorIs(t, err, types.ErrInvalidFieldType)
}

func TestFormsTable_Fetch(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	for _, frm := range []*types.Form{
		{Title: "Charlie"},
		{Title: "Alpha"},
		{Title: "Bravo", Archived: true},
	} {
		_, err := tbl.Set("", frm)
		require.NoError(t, err)
	}

	all, err := tbl.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Ordered by title.
	titles := make([]string, 0, len(all))
	for _, r := range all {
		titles = append(titles, r.(*types.Form).Title)
	}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie"}, titles)

	live, err := tbl.Fetch(map[string]any{"archived": false})
	require.NoError(t, err)
	assert.Len(t, live, 2)

	archived, err := tbl.Fetch(map[string]any{"archived": true})
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "Bravo", archived[0].(*types.Form).Title)

	limited, err := tbl.Fetch(map[string]any{"limit": 1, "offset": 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "Bravo", limited[0].(*types.Form).Title)

	_, err = tbl.Fetch(map[string]any{"archived": "yes"})
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestFormsTable_FetchEmpty(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)

	results, err := tbl.Fetch(nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestFormsTable_DeleteCascades(t *testing.T) {
	b := setupBackend(t)
	formsTbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)
	propsTbl, err := b.GetTable(types.TableProperties)
	require.NoError(t, err)

	props := &types.SelectFieldProperties{}
	_, err = props.AddChoice(&types.SelectFieldChoice{ChoiceID: "choice-1", Label: "Weekly"})
	require.NoError(t, err)
	propsID, err := propsTbl.Set("", props)
	require.NoError(t, err)

	frm := &types.Form{Title: "Doomed"}
	require.NoError(t, frm.AddField(&types.Field{
		Name: "cadence", Type: types.FieldTypeSelect, PropertiesID: propsID,
	}))
	id, err := formsTbl.Set("", frm)
	require.NoError(t, err)

	require.NoError(t, formsTbl.Delete(id))

	_, err = formsTbl.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = propsTbl.Get(propsID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFieldsTable_CRUD(t *testing.T) {
	b := setupBackend(t)
	formsTbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)
	fieldsTbl, err := b.GetTable(types.TableFields)
	require.NoError(t, err)

	formID, err := formsTbl.Set("", &types.Form{Title: "Survey"})
	require.NoError(t, err)

	f := &types.Field{
		FormID: formID,
		Name:   "comments",
		Label:  "Comments",
		Type:   types.FieldTypeText,
	}
	id, err := fieldsTbl.Set("", f)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	entity, err := fieldsTbl.Get(id)
	require.NoError(t, err)
	got := entity.(*types.Field)
	assert.Equal(t, "comments", got.Name)
	assert.Equal(t, "Comments", got.Label)
	assert.Equal(t, formID, got.FormID)

	// Update keeps the field's slot in the ordering.
	f.Label = "Your comments"
	_, err = fieldsTbl.Set(id, f)
	require.NoError(t, err)
	entity, err = fieldsTbl.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Your comments", entity.(*types.Field).Label)

	require.NoError(t, fieldsTbl.Delete(id))
	_, err = fieldsTbl.Get(id)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFieldsTable_SetRequiresExistingForm(t *testing.T) {
	b := setupBackend(t)
	tbl, err := b.GetTable(types.TableFields)
	require.NoError(t, err)

	_, err = tbl.Set("", &types.Field{
		FormID: "no-such-form",
		Name:   "orphan",
		Type:   types.FieldTypeText,
	})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestFieldsTable_OrdinalAppend(t *testing.T) {
	b := setupBackend(t)
	formsTbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)
	fieldsTbl, err := b.GetTable(types.TableFields)
	require.NoError(t, err)

	formID, err := formsTbl.Set("", &types.Form{Title: "Ordered"})
	require.NoError(t, err)

	for _, name := range []string{"first", "second", "third"} {
		_, err := fieldsTbl.Set("", &types.Field{
			FormID: formID, Name: name, Type: types.FieldTypeText,
		})
		require.NoError(t, err)
	}

	results, err := fieldsTbl.Fetch(map[string]any{"form_id": formID})
	require.NoError(t, err)
	require.Len(t, results, 3)
	names := make([]string, 0, 3)
	for _, r := range results {
		names = append(names, r.(*types.Field).Name)
	}
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestFieldsTable_FetchExcludesArchivedByDefault(t *testing.T) {
	b := setupBackend(t)
	formsTbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)
	fieldsTbl, err := b.GetTable(types.TableFields)
	require.NoError(t, err)

	formID, err := formsTbl.Set("", &types.Form{Title: "Mixed"})
	require.NoError(t, err)

	_, err = fieldsTbl.Set("", &types.Field{
		FormID: formID, Name: "live", Type: types.FieldTypeText,
	})
	require.NoError(t, err)
	_, err = fieldsTbl.Set("", &types.Field{
		FormID: formID, Name: "gone", Type: types.FieldTypeText, Archived: true,
	})
	require.NoError(t, err)

	live, err := fieldsTbl.Fetch(map[string]any{"form_id": formID})
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "live", live[0].(*types.Field).Name)

	all, err := fieldsTbl.Fetch(map[string]any{"form_id": formID, "include_archived": true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFieldsTable_DeleteClearsDependentConditions(t *testing.T) {
	b := setupBackend(t)
	formsTbl, err := b.GetTable(types.TableForms)
	require.NoError(t, err)
	fieldsTbl, err := b.GetTable(types.TableFields)
	require.NoError(t, err)

	trigger := &types.Field{FieldID: "field-trigger", Name: "trigger", Type: types.FieldTypeBoolean}
	frm := &types.Form{Title: "Linked"}
	require.NoError(t, frm.AddField(trigger))
	dependent := &types.Field{Name: "dependent", Type: types.FieldTypeText}
	require.NoError(t, frm.AddField(dependent))
	require.NoError(t, dependent.SetCondition(trigger, nil, types.MatchBool(true)))

	formID, err := formsTbl.Set("", frm)
	require.NoError(t, err)

	require.NoError(t, fieldsTbl.Delete("field-trigger"))

	entity, err := formsTbl.Get(formID)
	require.NoError(t, err)
	got := entity.(*types.Form)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "dependent", got.Fields[0].Name)
	assert.Nil(t, got.Fields[0].Condition)
}
