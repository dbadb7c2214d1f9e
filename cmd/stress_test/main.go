// Stress tool for order placement: fires concurrent single-item orders
// against the same menu item and checks that exactly initialStock of them
// succeed. Requires a running MySQL and Redis with the schema loaded.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tavolo/ordercore/internal/adapter/storage"
	"github.com/tavolo/ordercore/internal/core/domain"
	"github.com/tavolo/ordercore/internal/core/service"
)

const (
	mysqlDSN      = "root:root@tcp(localhost:3306)/restaurant?parseTime=true"
	redisAddr     = "localhost:6379"
	initialStock  = 20
	totalRequests = 50
)

func main() {
	ctx := context.Background()

	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		log.Fatalf("failed to open mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	itemID := seed(ctx, db)
	log.Printf("seeded menu item %d with stock %d", itemID, initialStock)

	redisAdapter := storage.NewRedisAdapter(rdb)
	if err := redisAdapter.SetStock(ctx, itemID, initialStock); err != nil {
		log.Fatalf("failed to mirror stock: %v", err)
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	orderService := service.NewOrderService(mysqlAdapter, redisAdapter, decimal.RequireFromString("0.10"), nil)

	var successCount, stockFailCount, otherFailCount atomic.Int32
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func(customerID int64) {
			defer wg.Done()

			_, err := orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
				CustomerID:   customerID,
				RestaurantID: 1,
				Cart:         []domain.CartLine{{MenuItemID: itemID, Quantity: 1}},
			})
			var stockErr *domain.InsufficientStockError
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.As(err, &stockErr):
				stockFailCount.Add(1)
			default:
				log.Printf("unexpected error: %v", err)
				otherFailCount.Add(1)
			}
		}(int64(i + 1))
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	stockFail := stockFailCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:       %d\n", initialStock)
	fmt.Printf("Total Requests:      %d\n", totalRequests)
	fmt.Printf("Successful:          %d\n", success)
	fmt.Printf("Insufficient Stock:  %d\n", stockFail)
	fmt.Printf("Other Failures:      %d\n", otherFailCount.Load())
	fmt.Printf("Duration:            %v\n", elapsed)
	fmt.Println("==========================================")

	if success == initialStock && stockFail == totalRequests-initialStock {
		fmt.Printf("PASS: exactly %d orders succeeded, %d rejected\n", initialStock, totalRequests-initialStock)
	} else {
		fmt.Printf("FAIL: expected %d success/%d rejected, got %d/%d\n",
			initialStock, totalRequests-initialStock, success, stockFail)
	}

	var finalStock int
	db.QueryRowContext(ctx, `SELECT stock FROM menu_items WHERE id = ?`, itemID).Scan(&finalStock)
	fmt.Printf("Final MySQL Stock: %d\n", finalStock)
	if finalStock == 0 {
		fmt.Println("PASS: stock depleted to 0")
	} else {
		fmt.Printf("FAIL: expected stock 0, got %d\n", finalStock)
	}
}

// seed makes sure a restaurant, category and a fresh stress-test item exist.
func seed(ctx context.Context, db *sql.DB) int64 {
	mustExec(ctx, db, `
		INSERT INTO restaurants (id, name) VALUES (1, 'Stress Test Kitchen')
		ON DUPLICATE KEY UPDATE name = VALUES(name)`)
	mustExec(ctx, db, `
		INSERT INTO menu_categories (id, restaurant_id, name) VALUES (1, 1, 'Stress')
		ON DUPLICATE KEY UPDATE name = VALUES(name)`)

	result, err := db.ExecContext(ctx, `
		INSERT INTO menu_items (restaurant_id, menu_category_id, name, price, stock, is_available, sort_order, status, created_at, updated_at)
		VALUES (1, 1, 'Stress Burger', 9.99, ?, 1, 0, 'active', NOW(), NOW())`,
		initialStock)
	if err != nil {
		log.Fatalf("failed to seed menu item: %v", err)
	}
	id, _ := result.LastInsertId()
	return id
}

func mustExec(ctx context.Context, db *sql.DB, query string, args ...any) {
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
