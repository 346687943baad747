package payment

import (
	"fmt"
	"strings"

	"fooddelivery/internal/pkg/errs"
)

// Channel is the payment method chosen at checkout.
type Channel string

const (
	CreditCard     Channel = "credit_card"
	ApplePay       Channel = "apple_pay"
	GooglePay      Channel = "google_pay"
	PayPal         Channel = "paypal"
	CashOnDelivery Channel = "cash_on_delivery"
	WeChatPay      Channel = "wechat_pay"
)

// Channels lists every accepted channel.
func Channels() []Channel {
	return []Channel{CreditCard, ApplePay, GooglePay, PayPal, CashOnDelivery, WeChatPay}
}

// ParseChannel converts a case-insensitive channel name into a Channel.
func ParseChannel(s string) (Channel, error) {
	c := Channel(strings.ToLower(strings.TrimSpace(s)))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Channel) Validate() error {
	for _, known := range Channels() {
		if c == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("paymentChannel", fmt.Errorf("%q is not a supported payment channel", string(c)))
}

func (c Channel) String() string {
	return string(c)
}
