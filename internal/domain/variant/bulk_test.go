package variant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"varibulk/internal/domain/catalogs/item"
	"varibulk/pkg/logger"
)

func TestCreateVariants_HappyPath(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateVariants(context.Background(), Batch{Rows: []Row{
		{Template: "T1", Values: []string{"Red"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"T1-RED"}, res.Created)
	assert.Equal(t, "• Created variant T1-RED for Color: Red on template T-Shirt.", res.Log)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, RowCreated, res.Outcomes[0].Status)
}

func TestCreateVariants_MixedRolesAndValues(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateVariants(context.Background(), Batch{DefaultTemplate: "MIX", Rows: []Row{
		{
			Values: []string{"", "", "Red"},
			Roles:  map[item.Role]string{item.RolePowderCode: "RAL9016", item.RoleLength: "6"},
		},
		{Values: []string{"RAL9016", "6.00", "Red"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"MIX-9016-6-RED"}, res.Created)
	require.Len(t, res.Outcomes, 2)
	assert.Equal(t, RowCreated, res.Outcomes[0].Status)
	assert.Equal(t, RowSkipped, res.Outcomes[1].Status)
}

func TestCreateVariants_DuplicateBatch(t *testing.T) {
	f := newFixture(t)
	batch := Batch{DefaultTemplate: "T1", Rows: []Row{{Values: []string{"Red"}}}}

	_, err := f.svc.CreateVariants(context.Background(), batch)
	require.NoError(t, err)

	res, err := f.svc.CreateVariants(context.Background(), batch)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, "• Skipped Color: Red for template T-Shirt: variant already exists (T1-RED).", res.Log)
	assert.Equal(t, RowSkipped, res.Outcomes[0].Status)
	assert.Len(t, f.items.VariantsOf("T1"), 1)
}

func TestCreateVariants_RowFailureContinues(t *testing.T) {
	f := newFixture(t)
	f.provider.CreateFunc = func(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error) {
		if v, _ := b.Get("Color"); v == "Blue" {
			return nil, errors.New("naming series exhausted")
		}
		return NewStoreProvider(f.items).CreateVariant(ctx, tc, b)
	}

	res, err := f.svc.CreateVariants(context.Background(), Batch{DefaultTemplate: "SHIRT", Rows: []Row{
		{Values: []string{"Blue", "Small"}},
		{Values: []string{"Red", "Medium"}, Overrides: Overrides{Code: "SHIRT-RM"}},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"SHIRT-RM"}, res.Created)
	lines := strings.Split(res.Log, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"• Failed to create variant for Color: Blue, Size: Small on template SHIRT: "+
			"create variant of SHIRT: naming series exhausted",
		lines[0])
	assert.Equal(t, "• Created variant SHIRT-RM for Color: Red, Size: Medium on template SHIRT.", lines[1])

	assert.Equal(t, RowFailed, res.Outcomes[0].Status)
	assert.NotEmpty(t, res.Outcomes[0].Error)

	entries := f.sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, SinkTitleTool, entries[0].Title)
	assert.Contains(t, entries[0].Trace, "row 1 template SHIRT")
}

func TestCreateVariants_RowLogsCarryBatchAndRow(t *testing.T) {
	f := newFixture(t)
	f.provider.CreateFunc = func(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error) {
		return nil, errors.New("naming series exhausted")
	}

	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})

	_, err := f.svc.CreateVariants(ctx, Batch{DefaultTemplate: "T1", Rows: []Row{
		{Values: []string{"Red"}},
		{Values: []string{"Blue"}},
	}})
	require.NoError(t, err)

	failed := logs.FilterMessage("variant row failed").All()
	require.Len(t, failed, 2)
	first, second := failed[0].ContextMap(), failed[1].ContextMap()
	assert.EqualValues(t, 1, first["row"])
	assert.EqualValues(t, 2, second["row"])
	assert.Equal(t, "T1", first["template"])
	assert.NotEmpty(t, first["batch_id"])
	assert.Equal(t, first["batch_id"], second["batch_id"])
}

func TestCreateVariants_ValidationFailureCreatesNothing(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateVariants(context.Background(), Batch{DefaultTemplate: "T1", Rows: []Row{
		{Values: []string{"Red"}},
		{Values: []string{"Purple"}},
	}})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Empty(t, f.items.VariantsOf("T1"))
	assert.Empty(t, f.sink.Entries())
}
