package models_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/takabooks/shops_backend/config"
	"github.com/takabooks/shops_backend/models"
	"github.com/takabooks/shops_backend/utils"
)

const testOwnerUid = "owner-uid-1"

// Regression: the Alpha Mart scenario. Selling 3 of a 5-stock product leaves
// stock 2 and a sale snapshotting unitPrice 10; deleting that sale restores
// stock 5.
func TestAddSale_DecrementsAndDeleteRestores(t *testing.T) {
	repo, ctx := setupIntegration(t)

	shop, err := repo.AddShop(ctx, &models.NewShop{UserId: testOwnerUid, Name: "Alpha Mart", Location: "Dhaka"})
	if err != nil {
		t.Fatalf("AddShop: %v", err)
	}
	widget, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId: shop.ID,
		UserId: testOwnerUid,
		Name:   "Widget",
		Price:  decimal.NewFromInt(10),
		Stock:  utils.NewInt(5),
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	sale, err := repo.AddSale(ctx, &models.NewSale{ProductId: widget.ID, UserId: testOwnerUid, Quantity: 3})
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}
	if !sale.UnitPrice.Equal(decimal.NewFromInt(10)) || sale.Quantity != 3 {
		t.Fatalf("sale snapshot wrong: unitPrice=%s qty=%d", sale.UnitPrice, sale.Quantity)
	}

	after, err := repo.GetProduct(ctx, widget.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got := utils.DereferencePtr(after.Stock, -1); got != 2 {
		t.Fatalf("post-sale stock = %d, want 2", got)
	}

	if err := repo.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	restored, err := repo.GetProduct(ctx, widget.ID)
	if err != nil {
		t.Fatalf("GetProduct after delete: %v", err)
	}
	if got := utils.DereferencePtr(restored.Stock, -1); got != 5 {
		t.Fatalf("restored stock = %d, want 5", got)
	}
	if gone, err := repo.GetSale(ctx, sale.ID); err != nil || gone != nil {
		t.Fatalf("sale should be gone: sale=%v err=%v", gone, err)
	}
}

// Regression: a sale is always attributed to the product's owner. Attributing
// it to anyone else is rejected, otherwise the recorded owner could later
// pass the ownership gate on DeleteSale and move the real owner's stock.
func TestAddSale_RejectsForeignOwnerAttribution(t *testing.T) {
	repo, ctx := setupIntegration(t)

	shop, err := repo.AddShop(ctx, &models.NewShop{UserId: testOwnerUid, Name: "Attribution Mart"})
	if err != nil {
		t.Fatalf("AddShop: %v", err)
	}
	product, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId: shop.ID,
		UserId: testOwnerUid,
		Name:   "Guarded",
		Price:  decimal.NewFromInt(10),
		Stock:  utils.NewInt(4),
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	_, err = repo.AddSale(ctx, &models.NewSale{ProductId: product.ID, UserId: "someone-else", Quantity: 1})
	if !errors.Is(err, utils.ErrValidation) {
		t.Fatalf("AddSale with foreign owner: err=%v, want ErrValidation", err)
	}

	sales, err := repo.GetProductSales(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProductSales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("rejected sale was recorded: %d sales", len(sales))
	}
	after, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got := utils.DereferencePtr(after.Stock, -1); got != 4 {
		t.Fatalf("stock moved by rejected sale: %d, want 4", got)
	}
}

// Regression: oversell clamps stock to zero but the sale is still recorded
// with the full requested quantity. Observed behavior, intentionally kept.
func TestAddSale_OversellClampsToZeroAndRecordsFullQuantity(t *testing.T) {
	repo, ctx := setupIntegration(t)

	shop, err := repo.AddShop(ctx, &models.NewShop{UserId: testOwnerUid, Name: "Clamp Shop"})
	if err != nil {
		t.Fatalf("AddShop: %v", err)
	}
	product, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId: shop.ID,
		UserId: testOwnerUid,
		Name:   "Scarce",
		Price:  decimal.NewFromInt(3),
		Stock:  utils.NewInt(2),
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}

	sale, err := repo.AddSale(ctx, &models.NewSale{ProductId: product.ID, UserId: testOwnerUid, Quantity: 5})
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}
	if sale.Quantity != 5 {
		t.Fatalf("sale quantity = %d, want full requested 5", sale.Quantity)
	}

	after, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got := utils.DereferencePtr(after.Stock, -1); got != 0 {
		t.Fatalf("post-oversell stock = %d, want 0", got)
	}

	// restore after oversell delete is unconditional, no clamp
	if err := repo.DeleteSale(ctx, sale.ID); err != nil {
		t.Fatalf("DeleteSale: %v", err)
	}
	restored, err := repo.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if got := utils.DereferencePtr(restored.Stock, -1); got != 5 {
		t.Fatalf("restored stock = %d, want 0+5", got)
	}
}

// Regression: a sale's unitPrice is a snapshot; repricing the product later
// must not move recorded revenue.
func TestSaleUnitPrice_SurvivesProductReprice(t *testing.T) {
	repo, ctx := setupIntegration(t)

	shop, err := repo.AddShop(ctx, &models.NewShop{UserId: testOwnerUid, Name: "Snapshot Shop"})
	if err != nil {
		t.Fatalf("AddShop: %v", err)
	}
	product, err := repo.AddProduct(ctx, &models.NewProduct{
		ShopId: shop.ID,
		UserId: testOwnerUid,
		Name:   "Drifter",
		Price:  decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	sale, err := repo.AddSale(ctx, &models.NewSale{ProductId: product.ID, UserId: testOwnerUid, Quantity: 2})
	if err != nil {
		t.Fatalf("AddSale: %v", err)
	}

	newPrice := decimal.NewFromInt(25)
	if _, err := repo.UpdateProduct(ctx, product.ID, &models.ProductPatch{Price: &newPrice}); err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}

	reloaded, err := repo.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("GetSale: %v", err)
	}
	if !reloaded.UnitPrice.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("sale unitPrice drifted to %s after reprice", reloaded.UnitPrice)
	}
	if !reloaded.Amount().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("sale amount = %s, want 20", reloaded.Amount())
	}
}

/* shared integration harness */

func setupIntegration(t *testing.T) (*models.Repository, context.Context) {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "shops_test")
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))

	db, err := config.ConnectDatabaseWithRetry(10)
	if err != nil {
		t.Fatalf("connect database: %v", err)
	}
	t.Cleanup(func() { _ = config.CloseDatabase(db) })

	cache, err := config.ConnectRedisWithRetry(10)
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = cache.Close() })

	if err := models.MigrateTable(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	repo := models.NewRepository(models.NewEntityStore(db, cache))

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, testOwnerUid)
	ctx = utils.SetUserNameInContext(ctx, "Test Owner")
	ctx = utils.SetCorrelationIdInContext(ctx, uuid.NewString())
	return repo, ctx
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("shops-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("shops-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=shops_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
