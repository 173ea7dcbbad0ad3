package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/internal/domain/auth"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/documents/sales_order"
	"varibulk/internal/domain/documents/stock_reconciliation"
	"varibulk/internal/domain/production"
	"varibulk/internal/domain/reports"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/http/v1/handlers"
	"varibulk/internal/infrastructure/spreadsheet"
	"varibulk/pkg/logger"
)

type stubReports struct {
	summary []reports.WorkOrderSummaryRow
}

func (r *stubReports) GetWorkOrderSummary(ctx context.Context, f reports.WorkOrderSummaryFilter) ([]reports.WorkOrderSummaryRow, error) {
	return r.summary, nil
}

func (r *stubReports) GetProductionAnalytics(ctx context.Context, f reports.ProductionAnalyticsFilter) ([]reports.ProductionAnalyticsRow, error) {
	return nil, nil
}

func (r *stubReports) GetRequiredMaterials(ctx context.Context, f reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	return nil, nil
}

func (r *stubReports) GetConsumedMaterials(ctx context.Context, f reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	return nil, nil
}

func (r *stubReports) GetScrapMaterials(ctx context.Context, f reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	return nil, nil
}

type stubDB struct{ err error }

func (d stubDB) Ping(ctx context.Context) error { return d.err }
func (d stubDB) Stat() *pgxpool.Stat            { return nil }

type testAPI struct {
	router  *gin.Engine
	items   *item.MemoryRepository
	ledger  *production.MemoryRepository
	sink    *variant.MemorySink
	jwt     *auth.JWTService
	manager string
	viewer  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	attrs := attribute.NewMemoryRepository(
		attribute.NewAttribute("Color",
			attribute.Value{Value: "Red"},
			attribute.Value{Value: "Blue", Abbr: "BL"},
		),
		attribute.NewAttribute("Sticker",
			attribute.Value{Value: "With Sticker", Abbr: "WS"},
			attribute.Value{Value: "No Sticker", Abbr: "NS"},
		),
		attribute.NewAttribute("Powder Code", attribute.Value{Value: "RAL9016", Abbr: "9016"}),
		attribute.NewNumericAttribute("Length", decimal.Zero, decimal.Zero, decimal.Zero),
	)
	items := item.NewMemoryRepository(
		item.NewTemplate("T1", "T-Shirt", "Color"),
		item.NewTemplate("PROFILE", "Profile", "Sticker", "Powder Code", "Length"),
	)
	ledger := production.NewMemoryRepository()
	sink := &variant.MemorySink{}

	resolver := variant.NewResolver(items, attrs, 3)
	materializer := variant.NewMaterializer(items, variant.NewStoreProvider(items), tx.Nop{}, nil)
	attrSvc := attribute.NewService(attrs, tx.Nop{})
	variants := variant.NewService(resolver, materializer, attrSvc, sink)

	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("test-secret"))
	manager, _, err := jwtSvc.GenerateAccessToken("u-1", "manager@example.com", []string{RoleItemManager})
	require.NoError(t, err)
	viewer, _, err := jwtSvc.GenerateAccessToken("u-2", "viewer@example.com", nil)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Logger:       logger.Nop(),
		JWTValidator: jwtSvc,
		Health:       handlers.NewHealthHandler("varibulk", "test", stubDB{}, nil),
		PanicSink:    sink,
		ErrorLog:     sink,
		Services: Services{
			Variants:        variants,
			Items:           item.NewService(items, attrs, tx.Nop{}, 3),
			Attributes:      attrSvc,
			SalesOrders:     sales_order.NewService(variants, sink),
			Reconciliations: stock_reconciliation.NewService(variants),
			Production:      production.NewService(ledger, tx.Nop{}),
			Reports: reports.NewService(&stubReports{summary: []reports.WorkOrderSummaryRow{
				{WorkOrder: "WO-0001", Status: "Completed", ProductionItem: "T1-Red", Qty: decimal.NewFromInt(10)},
			}}),
		},
	})

	return &testAPI{
		router:  router,
		items:   items,
		ledger:  ledger,
		sink:    sink,
		jwt:     jwtSvc,
		manager: manager,
		viewer:  viewer,
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRouter_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/templates/T1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperror.CodeUnauthorized, decode(t, w)["code"])

	w = api.do(t, http.MethodGet, "/api/v1/templates/T1", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_BatchNeedsItemManager(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/variants/batch", api.viewer, map[string]any{
		"defaultTemplate": "T1",
		"rows":            []map[string]any{{"values": []string{"Red"}}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, api.items.VariantsOf("T1"))
}

func TestRouter_CreateBatch(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/variants/batch", api.manager, map[string]any{
		"defaultTemplate": "T1",
		"rows": []map[string]any{
			{"values": []string{"Red"}},
			{"values": []string{"Blue"}, "itemName": "Blue shirt"},
			{"values": []string{"Red"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, []any{"T1-RED", "T1-BL"}, body["created"])
	outcomes := body["outcomes"].([]any)
	require.Len(t, outcomes, 3)
	assert.Equal(t, "skipped", outcomes[2].(map[string]any)["status"])
	assert.Contains(t, body["log"], "• Created variant T1-RED")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CreateBatchRejectsInvalidRows(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/variants/batch", api.manager, map[string]any{
		"rows": []map[string]any{
			{"template": "T1", "values": []string{"Green"}},
			{"values": []string{"Red"}},
		},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, apperror.CodeValidation, body["code"])
	assert.Contains(t, body["message"], "Template Item is required in rows: 2")
	assert.Contains(t, body["message"], "Row 1: Green (Template T1, Attribute Color)")
	assert.Empty(t, api.items.VariantsOf("T1"))
}

func TestRouter_CreateBatchUnknownTemplate(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/variants/batch", api.manager, map[string]any{
		"defaultTemplate": "NOPE",
		"rows":            []map[string]any{{"values": []string{"Red"}}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, apperror.CodeConfiguration, decode(t, w)["code"])
}

func TestRouter_Resolve(t *testing.T) {
	api := newTestAPI(t)

	req := map[string]any{
		"template":   "PROFILE",
		"sticker":    "With Sticker",
		"powderCode": "RAL9016",
		"length":     "6.50",
	}
	w := api.do(t, http.MethodPost, "/api/v1/variants/resolve", api.viewer, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, true, first["created"])
	assert.Equal(t, "PROFILE", first["template"])

	req["length"] = "6.5"
	w = api.do(t, http.MethodPost, "/api/v1/variants/resolve", api.viewer, req)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode(t, w)
	assert.Equal(t, false, second["created"])
	assert.Equal(t, first["itemCode"], second["itemCode"])
}

func TestRouter_TemplateAndAttributes(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/templates/T1", api.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Color", decode(t, w)["attributeNames"])

	w = api.do(t, http.MethodGet, "/api/v1/attributes/Color/values?txt=bl", api.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var options []attribute.Option
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
	assert.Equal(t, []attribute.Option{{Value: "Blue", Label: "BL"}}, options)

	w = api.do(t, http.MethodPost, "/api/v1/attributes", api.manager, map[string]any{
		"name":   "Size",
		"values": []map[string]any{{"value": "Small", "abbr": "S"}, {"value": "Large", "abbr": "L"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPut, "/api/v1/templates/T1/attributes", api.manager, map[string]any{
		"attributes": []map[string]any{{"attribute": "Color"}, {"attribute": "Size"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["attributes"], 2)

	w = api.do(t, http.MethodPut, "/api/v1/templates/T1/attributes", api.manager, map[string]any{
		"attributes": []map[string]any{{"attribute": "Color", "role": "colour"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ImportBatch(t *testing.T) {
	api := newTestAPI(t)

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Template", "Value 1"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"T1", "Blue"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A4", &[]any{"", "Red"}))
	var wb bytes.Buffer
	require.NoError(t, f.Write(&wb))
	require.NoError(t, f.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("defaultTemplate", "T1"))
	part, err := mw.CreateFormFile("file", "variants.xlsx")
	require.NoError(t, err)
	_, err = part.Write(wb.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/variants/batch/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.manager)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode(t, w)
	assert.Equal(t, []any{"T1-BL", "T1-RED"}, resp["created"])
	assert.Equal(t, []any{float64(2), float64(4)}, resp["sheetRows"])
}

func TestRouter_ImportRejectsCSV(t *testing.T) {
	api := newTestAPI(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "variants.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("template,value 1\nT1,Red\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/variants/batch/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+api.manager)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Documents(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/v1/documents/sales-orders/ensure-variants", api.viewer, map[string]any{
		"items": []map[string]any{
			{"templateItem": "T1", "attributeValue": "Red"},
			{"itemCode": "PLAIN"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rows := decode(t, w)["items"].([]any)
	assert.Equal(t, "T1-RED", rows[0].(map[string]any)["itemCode"])
	assert.Equal(t, "1", rows[0].(map[string]any)["conversionFactor"])
	assert.Equal(t, "PLAIN", rows[1].(map[string]any)["itemCode"])

	w = api.do(t, http.MethodPost, "/api/v1/documents/sales-orders/ensure-variants", api.viewer, map[string]any{
		"items": []map[string]any{{"templateItem": "T1", "attributeValue": "Green"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["message"], "Unable to create or locate variant for Green on template T1.")
	require.Len(t, api.sink.Entries(), 1)
	assert.Equal(t, variant.SinkTitleSalesOrder, api.sink.Entries()[0].Title)

	w = api.do(t, http.MethodPost, "/api/v1/documents/stock-reconciliations/resolve-variant", api.viewer, map[string]any{
		"templateItem": "PROFILE", "sticker": "No Sticker", "powderCode": "RAL9016", "length": "3",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "PROFILE-NS-9016-3", decode(t, w)["itemCode"])
}

func TestRouter_VoucherHook(t *testing.T) {
	api := newTestAPI(t)
	match := production.LedgerMatch{
		VoucherType:     production.VoucherStockEntry,
		VoucherNo:       "STE-0001",
		ItemCode:        "T1-Red",
		VoucherDetailNo: "row-1",
	}
	api.ledger.Ledger = append(api.ledger.Ledger, production.LedgerEntry{LedgerMatch: match})

	w := api.do(t, http.MethodPost, "/api/v1/hooks/vouchers/on-submit", api.viewer, map[string]any{
		"voucherType": "Stock Entry",
		"name":        "STE-0001",
		"items":       []map[string]any{{"name": "row-1", "itemCode": "T1-Red", "totalPcs": "12"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["ledgerEntries"])
	assert.True(t, api.ledger.Ledger[0].TotalPcs.Decimal.Equal(decimal.NewFromInt(12)))

	w = api.do(t, http.MethodPost, "/api/v1/hooks/vouchers/on-submit", api.viewer, map[string]any{
		"voucherType": "Purchase Receipt",
		"name":        "PR-0001",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ReportFormats(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/reports/work-order-summary?fromDate=2024-01-01", api.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["rows"], 1)

	w = api.do(t, http.MethodGet, "/api/v1/reports/work-order-summary?format=xlsx", api.viewer, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, spreadsheet.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "work-order-summary-")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Work Order Summary")
	require.NoError(t, err)
	assert.Equal(t, "WO-0001", rows[1][0])

	w = api.do(t, http.MethodGet, "/api/v1/reports/work-order-summary?fromDate=01.01.2024", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/reports/production-analytics?groupBy=Week", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ReadyReportsFailingCheck(t *testing.T) {
	h := handlers.NewHealthHandler("varibulk", "test", stubDB{}, nil)
	h.AddCheck("lock", handlers.PingFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	}))
	router := NewRouter(RouterConfig{Logger: logger.Nop(), Health: h})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	checks := decode(t, w)["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "unhealthy: connection refused", checks["lock"])
}

func TestRouter_RecoversPanics(t *testing.T) {
	api := newTestAPI(t)
	api.router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := api.do(t, http.MethodGet, "/boom", "", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, w)["code"])
	entries := api.sink.Entries()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Trace, "kaboom")
}

func TestRouter_ErrorLog(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()
	api.sink.LogError(ctx, variant.SinkTitleTool, "row 1 template T1: first")
	api.sink.LogError(ctx, variant.SinkTitleSalesOrder, "SO-1: second")
	api.sink.LogError(ctx, variant.SinkTitleTool, "row 2 template T1: third")

	w := api.do(t, http.MethodGet, "/api/v1/error-log", api.viewer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/error-log?title=Variant+Creation+Tool&limit=1", api.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []variant.SinkEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "row 2 template T1: third", entries[0].Trace)

	w = api.do(t, http.MethodGet, "/api/v1/error-log", api.manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)
}
