package mapper

import (
	"errors"
	"net/netip"
	"strconv"
	"strings"
	"time"

	"config-mapper/schema"
	"config-mapper/traversal"
	"config-mapper/tree"
)

type OrderStatus string

const (
	StatusPending OrderStatus = "PENDING"
	StatusPaid    OrderStatus = "PAID"
)

// OrderItem snapshots the price at the time of purchase.
type OrderItem struct {
	schema.Configurable

	ProductID int64  `conf:"product_id"`
	Name      string `conf:"name,optional"`
	Quantity  int    `conf:"quantity" validate:"range=1|1000"`
	UnitPrice int64  `conf:"unit_price"`
}

type Order struct {
	schema.Configurable `desc:"A customer order."`

	ID         int64             `conf:"id"`
	Status     OrderStatus       `conf:"status" desc:"Lifecycle state." example:"PENDING|PAID"`
	Items      []OrderItem       `conf:"items"`
	Tags       map[string]string `conf:"tags,optional"`
	OrderedAt  time.Time         `conf:"ordered_at"`
	TotalCents int64             `conf:"total_cents,virtual,optional"`
}

func (o *Order) PostConstruct(*traversal.Context, *tree.Mapping) error {
	o.TotalCents = 0
	for _, it := range o.Items {
		o.TotalCents += int64(it.Quantity) * it.UnitPrice
	}

	return nil
}

func sampleOrder() Order {
	return Order{
		ID:     42,
		Status: StatusPaid,
		Items: []OrderItem{
			{ProductID: 1, Name: "keyboard", Quantity: 2, UnitPrice: 4500},
			{ProductID: 7, Quantity: 1, UnitPrice: 999},
		},
		Tags:       map[string]string{"channel": "web", "region": "eu"},
		OrderedAt:  time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
		TotalCents: 9999,
	}
}

type Label struct {
	schema.Configurable

	Name  string `conf:"-"`
	Value string `conf:"value"`
}

// Listener is used with the snake naming strategy.
type Listener struct {
	schema.Configurable

	Host    string           `validate:"not-blank"`
	Port    int              `conf:"port" confpath:"server_port" validate:"range=1|65535"`
	Mode    string           `conf:"mode,constant,optional"`
	Bind    netip.Addr       `conf:"bind,optional"`
	Labels  map[string]Label `conf:"labels,optional"`
	Timeout time.Duration    `conf:",optional"`
	Note    string           `conf:"note,silent" validate:"not-blank"`
}

func newListener() Listener {
	return Listener{Mode: "tcp", Port: 80, Note: "default"}
}

func listenerNode() *tree.Mapping {
	m := tree.NewMapping()
	m.Set("host", tree.Scalar{Value: "localhost"})
	m.Set("port", tree.Scalar{Value: 8080})
	m.Set("note", tree.Scalar{Value: "hello"})

	return m
}

type Chain struct {
	schema.Configurable

	Name string `conf:"name"`
	Next *Chain `conf:"next,optional"`
}

type Broken struct {
	schema.Configurable

	Events chan int `conf:"events"`
}

// Money is not configurable and needs an adapter.
type Money struct {
	Cents int64
}

func moneyToString(m Money) string {
	return strconv.FormatInt(m.Cents/100, 10) + "." + leftPad(strconv.FormatInt(m.Cents%100, 10))
}

func leftPad(s string) string {
	if len(s) < 2 {
		return "0" + s
	}

	return s
}

func moneyFromString(s string) (Money, error) {
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || len(frac) != 2 {
		return Money{}, errors.New("want units.cents")
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, err
	}

	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Money{}, err
	}

	return Money{Cents: w*100 + f}, nil
}

type Invoice struct {
	schema.Configurable

	Total  Money          `conf:"total"`
	Lines  map[int]string `conf:"lines,optional"`
	Pair   [2]string      `conf:"pair,optional"`
	Extra  any            `conf:"extra,optional"`
	Source tree.Node      `conf:"source,optional"`
}

// Tuning holds settings that only need float32 precision.
type Tuning struct {
	schema.Configurable

	Ratio  float32  `conf:"ratio"`
	Weight *float32 `conf:"weight,optional"`
}
