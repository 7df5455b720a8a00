package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/luislem95/api-gestor-pedidos/internal/catalog"
	"github.com/luislem95/api-gestor-pedidos/internal/orders"
	"github.com/luislem95/api-gestor-pedidos/internal/receipts"
	"github.com/luislem95/api-gestor-pedidos/internal/sessions"
	"github.com/luislem95/api-gestor-pedidos/internal/storage"
	"github.com/sirupsen/logrus"
)

type stubS3 struct{}

func (stubS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	io.Copy(io.Discard, params.Body)
	return &s3.PutObjectOutput{}, nil
}

type stubPresigner struct{}

func (stubPresigner) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return &v4.PresignedHTTPRequest{
		URL: "https://" + *params.Bucket + ".s3.amazonaws.com/" + *params.Key + "?X-Amz-Signature=abc",
	}, nil
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *storage.Table) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := storage.NewMemoryDynamo()
	tbl := storage.NewTable(mem, "general-storage", "user_id-tipo-index")
	sessionStore := sessions.NewStore(tbl, 7*24*time.Hour)
	orderStore := orders.NewStore(tbl)

	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	Register(r, Config{
		Sessions: sessionStore,
		Orders:   orderStore,
		Confirm:  orders.NewWorkflow(sessionStore, orderStore),
		Catalog:  catalog.NewStore(tbl),
		Receipts: receipts.NewService(stubS3{}, stubPresigner{}, tbl, "store-comprobantes", "tienda-pedidos/", time.Minute),
		Logger:   log,
	})
	return r, tbl
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestGetSession_CreatesThenFetches(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)
	if code != http.StatusCreated {
		t.Fatalf("first contact: expected 201, got %d (%s)", code, env.Error)
	}

	code, env = do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)
	if code != http.StatusOK {
		t.Fatalf("second contact: expected 200, got %d", code)
	}

	var sess map[string]interface{}
	if err := json.Unmarshal(env.Data, &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess["id"] != "emp-1" || sess["estatus"] != sessions.StatusPendiente {
		t.Fatalf("unexpected session %v", sess)
	}
}

func TestGetSession_MissingParam(t *testing.T) {
	r, _ := newTestRouter(t)

	code, _ := do(t, r, http.MethodGet, "/sesiones", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestCartFlow(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)

	code, env := do(t, r, http.MethodPost, "/sesiones/emp-1/items", gin.H{
		"items": []gin.H{
			{"id": "p1", "cantidad": 2, "precio": 1.5, "nombre": "Pan"},
			{"id": "p2", "cantidad": 1, "precio": 3.0},
		},
	})
	if code != http.StatusOK {
		t.Fatalf("merge: expected 200, got %d (%s)", code, env.Error)
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}

	code, env = do(t, r, http.MethodPut, "/sesiones/emp-1/items/p1", gin.H{"nuevaCantidad": 0})
	if code != http.StatusOK {
		t.Fatalf("set quantity: expected 200, got %d (%s)", code, env.Error)
	}

	code, _ = do(t, r, http.MethodDelete, "/sesiones/emp-1/items/p2", nil)
	if code != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", code)
	}
	code, _ = do(t, r, http.MethodDelete, "/sesiones/emp-1/items/p2", nil)
	if code != http.StatusNotFound {
		t.Fatalf("remove absent: expected 404, got %d", code)
	}
}

func TestMergeItems_RejectsDuplicates(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)

	code, _ := do(t, r, http.MethodPost, "/sesiones/emp-1/items", gin.H{
		"items": []gin.H{
			{"id": "p1", "cantidad": 1},
			{"id": "p1", "cantidad": 2},
		},
	})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestConfirmOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)
	do(t, r, http.MethodPost, "/sesiones/emp-1/items", gin.H{
		"items": []gin.H{{"id": "p1", "cantidad": 2, "precio": 10.0}},
	})

	code, env := do(t, r, http.MethodPost, "/pedidos/confirmar", gin.H{"id": "emp-1"})
	if code != http.StatusCreated {
		t.Fatalf("confirm: expected 201, got %d (%s)", code, env.Error)
	}
	var order map[string]interface{}
	if err := json.Unmarshal(env.Data, &order); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	if order["numeroPedido"] != float64(1) {
		t.Fatalf("expected first order number 1, got %v", order["numeroPedido"])
	}
	if order["total"] != float64(20) {
		t.Fatalf("expected total 20, got %v", order["total"])
	}

	// the session is consumed; the next contact starts fresh
	code, _ = do(t, r, http.MethodGet, "/sesiones?idUsuario=emp-1", nil)
	if code != http.StatusCreated {
		t.Fatalf("expected fresh session after confirm, got %d", code)
	}
}

func TestConfirmOrder_MissingSession(t *testing.T) {
	r, _ := newTestRouter(t)

	code, _ := do(t, r, http.MethodPost, "/pedidos/confirmar", gin.H{"id": "ghost"})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestSaveOrder_CreateThenUpdate(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodPut, "/pedidos", gin.H{
		"id":    "order-1",
		"nuevo": true,
		"items": []gin.H{{"id": "p1", "cantidad": 1, "precio": 4.25}},
	})
	if code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", code, env.Error)
	}

	code, env = do(t, r, http.MethodPut, "/pedidos", gin.H{
		"id":      "order-1",
		"estatus": orders.StatusPedido,
	})
	if code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", code, env.Error)
	}
	var updated map[string]interface{}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated["estatus"] != orders.StatusPedido {
		t.Fatalf("expected estatus %s, got %v", orders.StatusPedido, updated["estatus"])
	}
	if updated["total"] != float64(4.25) {
		t.Fatalf("partial update must keep total, got %v", updated["total"])
	}
}

func TestSaveOrder_UpdateAppendsItems(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodPut, "/pedidos", gin.H{
		"id":    "order-1",
		"nuevo": true,
		"items": []gin.H{{"id": "p1", "cantidad": 2, "precio": 10.0}},
	})

	code, env := do(t, r, http.MethodPut, "/pedidos", gin.H{
		"id":    "order-1",
		"items": []gin.H{{"id": "p2", "cantidad": 1, "precio": 5.0}},
	})
	if code != http.StatusOK {
		t.Fatalf("append: expected 200, got %d (%s)", code, env.Error)
	}

	var updated map[string]interface{}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	items, _ := updated["items"].([]interface{})
	if len(items) != 2 {
		t.Fatalf("expected existing line kept and new line appended, got %d lines", len(items))
	}
	if updated["total"] != float64(25) {
		t.Fatalf("total must cover the merged list, got %v", updated["total"])
	}
}

func TestSaveOrder_UpdateMissing(t *testing.T) {
	r, _ := newTestRouter(t)

	code, _ := do(t, r, http.MethodPut, "/pedidos", gin.H{"id": "ghost", "estatus": "Pedido"})
	if code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
}

func TestSaveOrder_NothingToUpdate(t *testing.T) {
	r, _ := newTestRouter(t)

	code, _ := do(t, r, http.MethodPut, "/pedidos", gin.H{"id": "order-1"})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestCancelOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	do(t, r, http.MethodPut, "/pedidos", gin.H{
		"id":    "order-1",
		"nuevo": true,
		"items": []gin.H{{"id": "p1", "cantidad": 1, "precio": 1.0}},
	})

	code, env := do(t, r, http.MethodPost, "/pedidos/cancelar", gin.H{"id": "order-1"})
	if code != http.StatusOK {
		t.Fatalf("cancel: expected 200, got %d (%s)", code, env.Error)
	}
	var updated map[string]interface{}
	if err := json.Unmarshal(env.Data, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated["estatus"] != orders.StatusCancelado {
		t.Fatalf("expected Cancelado, got %v", updated["estatus"])
	}
}

func TestOrderHistory(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/pedidos/historial?codigoUsuario=biz-1", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var history []map[string]interface{}
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("history must be an array even when empty: %v", err)
	}

	code, _ = do(t, r, http.MethodGet, "/pedidos/historial", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("missing codigoUsuario: expected 400, got %d", code)
	}
}

func TestListInventory(t *testing.T) {
	r, tbl := newTestRouter(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		id := fmt.Sprintf("prod-%d", i)
		item := catalog.Item{Category: catalog.Category, ID: id, Name: id, Price: float64(i), Quantity: 5}
		if err := tbl.Put(ctx, catalog.Category, id, item); err != nil {
			t.Fatalf("seed inventory: %v", err)
		}
	}

	code, env := do(t, r, http.MethodGet, "/inventario", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	var items []map[string]interface{}
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestUploadReceipt(t *testing.T) {
	r, tbl := newTestRouter(t)
	ctx := context.Background()

	order := orders.Order{Category: orders.Category, ID: "order-1", Status: orders.StatusPedido}
	if err := tbl.Put(ctx, orders.Category, "order-1", order); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	code, env := do(t, r, http.MethodPost, "/comprobantes", gin.H{
		"image":    base64.StdEncoding.EncodeToString([]byte("fake-jpeg")),
		"fileName": "recibo",
		"record":   gin.H{"tipo": orders.Category, "id": "order-1"},
	})
	if code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d (%s)", code, env.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	record, _ := data["record"].(map[string]interface{})
	if record["estatus"] != orders.StatusFacturacion {
		t.Fatalf("expected Facturacion, got %v", record["estatus"])
	}
}

func TestSignedReceiptURL(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/comprobantes/url?s3Path=s3://store-comprobantes/tienda-pedidos/1_recibo.jpg", nil)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, env.Error)
	}

	code, _ = do(t, r, http.MethodGet, "/comprobantes/url?s3Path=not-an-s3-path", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("bad path: expected 400, got %d", code)
	}
	code, _ = do(t, r, http.MethodGet, "/comprobantes/url", nil)
	if code != http.StatusBadRequest {
		t.Fatalf("missing param: expected 400, got %d", code)
	}
}
