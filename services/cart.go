package services

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
)

// CartItem is one line in a shop cart.
type CartItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// The cart is pure UI state: an in-memory list per signed-in session, reduced
// by the operations below and never persisted. Process restart empties every
// cart.

func addItem(items []CartItem, name string, price float64) []CartItem {
	for i, item := range items {
		if item.Name == name {
			items[i].Qty++
			return items
		}
	}
	return append(items, CartItem{Name: name, Price: price, Qty: 1})
}

func removeItem(items []CartItem, name string) []CartItem {
	out := items[:0]
	for _, item := range items {
		if item.Name != name {
			out = append(out, item)
		}
	}
	return out
}

// adjustQty applies a quantity delta; a line at or below zero disappears.
func adjustQty(items []CartItem, name string, delta int) []CartItem {
	out := items[:0]
	for _, item := range items {
		if item.Name == name {
			item.Qty += delta
		}
		if item.Qty > 0 {
			out = append(out, item)
		}
	}
	return out
}

func cartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Qty)
	}
	return total
}

func itemCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// CartService keeps one cart per session user id.
type CartService struct {
	mu    sync.RWMutex
	carts map[string][]CartItem
}

func NewCartService() *CartService {
	return &CartService{carts: make(map[string][]CartItem)}
}

type cartView struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
	Count int        `json:"count"`
}

func (s *CartService) view(userID string) cartView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.carts[userID]
	if items == nil {
		items = []CartItem{}
	}
	return cartView{Items: items, Total: cartTotal(items), Count: itemCount(items)}
}

func (s *CartService) GetCart(c *fiber.Ctx) error {
	return c.JSON(s.view(userID(c)))
}

func (s *CartService) AddItem(c *fiber.Ctx) error {
	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.Status(400).JSON(fiber.Map{"error": "name is required"})
	}
	if req.Price < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "price must be non-negative"})
	}

	uid := userID(c)
	s.mu.Lock()
	s.carts[uid] = addItem(s.carts[uid], req.Name, req.Price)
	s.mu.Unlock()

	return c.JSON(s.view(uid))
}

func (s *CartService) AdjustItem(c *fiber.Ctx) error {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
	}

	uid := userID(c)
	name := c.Params("name")
	s.mu.Lock()
	s.carts[uid] = adjustQty(s.carts[uid], name, req.Delta)
	s.mu.Unlock()

	return c.JSON(s.view(uid))
}

func (s *CartService) RemoveItem(c *fiber.Ctx) error {
	uid := userID(c)
	s.mu.Lock()
	s.carts[uid] = removeItem(s.carts[uid], c.Params("name"))
	s.mu.Unlock()

	return c.JSON(s.view(uid))
}
