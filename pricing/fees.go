package pricing

import (
	"slices"

	"github.com/samber/lo"
)

// DeliveryMethod is how an order leaves the factory.
type DeliveryMethod string

const (
	DeliveryTrailer DeliveryMethod = "trailer"
	DeliveryCrane   DeliveryMethod = "crane"
	DeliveryPickup  DeliveryMethod = "pickup"
)

var deliveryMethods = []DeliveryMethod{DeliveryTrailer, DeliveryCrane, DeliveryPickup}

var defaultDeliveryFees = map[DeliveryMethod]float64{
	DeliveryTrailer: 200,
	DeliveryCrane:   700,
	DeliveryPickup:  0,
}

// DeliveryMethods lists the supported methods in display order.
func DeliveryMethods() []DeliveryMethod {
	return slices.Clone(deliveryMethods)
}

// Valid reports whether m is one of the supported delivery methods.
func (m DeliveryMethod) Valid() bool {
	return lo.Contains(deliveryMethods, m)
}

// ExpressFeeSettings mirrors the express_fee setting; nil fields were not configured.
type ExpressFeeSettings struct {
	Enabled *bool    `json:"enabled"`
	Fee     *float64 `json:"fee"`
}

// CutAndBendFeeSettings mirrors the cut_bend_fee setting.
type CutAndBendFeeSettings struct {
	Fee *float64 `json:"fee"`
}

// FeeSettings is fee configuration as stored, with every key optional.
type FeeSettings struct {
	DeliveryFees  map[DeliveryMethod]*float64
	ExpressFee    *ExpressFeeSettings
	CutAndBendFee *CutAndBendFeeSettings
}

// ExpressFee is the resolved express surcharge. Fee applies only when Enabled.
type ExpressFee struct {
	Enabled bool    `json:"enabled"`
	Fee     float64 `json:"fee"`
}

// CutAndBendFee is the resolved flat cut-and-bend surcharge.
type CutAndBendFee struct {
	Fee float64 `json:"fee"`
}

// FeeConfig is fee configuration with defaults already applied. Read sites never
// need to default anything.
type FeeConfig struct {
	DeliveryFees map[DeliveryMethod]float64 `json:"delivery_fees"`
	Express      ExpressFee                 `json:"express_fee"`
	CutAndBend   CutAndBendFee              `json:"cut_bend_fee"`
}

// DefaultFeeConfig is the configuration used when nothing is stored.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{DeliveryFees: lo.Assign(defaultDeliveryFees)}
}

// ResolveFeeConfig overlays stored settings on the defaults, key by key.
func ResolveFeeConfig(s FeeSettings) FeeConfig {
	cfg := DefaultFeeConfig()

	for _, method := range deliveryMethods {
		if fee := s.DeliveryFees[method]; fee != nil {
			cfg.DeliveryFees[method] = *fee
		}
	}
	if s.ExpressFee != nil {
		if s.ExpressFee.Enabled != nil {
			cfg.Express.Enabled = *s.ExpressFee.Enabled
		}
		if s.ExpressFee.Fee != nil {
			cfg.Express.Fee = *s.ExpressFee.Fee
		}
	}
	if s.CutAndBendFee != nil && s.CutAndBendFee.Fee != nil {
		cfg.CutAndBend.Fee = *s.CutAndBendFee.Fee
	}

	return cfg
}

// DeliveryFee returns the fee for a method; unknown methods cost nothing.
func (c FeeConfig) DeliveryFee(method DeliveryMethod) float64 {
	return c.DeliveryFees[method]
}

// ExpressAvailable reports whether customers may ask for express handling at all.
func (c FeeConfig) ExpressAvailable() bool {
	return c.Express.Enabled
}

// FormState carries the order form choices that affect fees.
type FormState struct {
	DeliveryMethod DeliveryMethod
	IsExpress      bool
}

// Fees are the surcharges added on top of the products subtotal.
type Fees struct {
	Delivery   float64 `json:"delivery_fee"`
	Express    float64 `json:"express_fee"`
	CutAndBend float64 `json:"cut_and_bend_fee"`
}

// Total sums every surcharge.
func (f Fees) Total() float64 {
	return f.Delivery + f.Express + f.CutAndBend
}

// NeedsCutAndBend reports whether any line is shorter than a stock bar.
// Zero and negative lengths are not cuts.
func NeedsCutAndBend(items []LineItem) bool {
	return lo.SomeBy(items, func(item LineItem) bool {
		return item.LengthM > 0 && item.LengthM < StockBarLengthM
	})
}

// ComposeFees computes the surcharges for an order. The cut-and-bend fee is flat
// per order no matter how many lines are cuts. Express is only charged while the
// feature is enabled, whatever the form says.
func ComposeFees(items []LineItem, form FormState, cfg FeeConfig) Fees {
	fees := Fees{Delivery: cfg.DeliveryFee(form.DeliveryMethod)}
	if form.IsExpress && cfg.ExpressAvailable() {
		fees.Express = cfg.Express.Fee
	}
	if NeedsCutAndBend(items) {
		fees.CutAndBend = cfg.CutAndBend.Fee
	}
	return fees
}
