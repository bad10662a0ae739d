package orders

import (
	"github.com/raidhaan/pos-backend/pkg/enums"
	pkgerrors "github.com/raidhaan/pos-backend/pkg/errors"
	"github.com/raidhaan/pos-backend/pkg/validate"
)

// LineItemInput is one submitted order line.
type LineItemInput struct {
	ItemID   uint `json:"item_id" validate:"required"`
	Quantity int  `json:"quantity" validate:"required,gt=0"`
}

// OrderInput is the full create/update submission: customer contact fields
// plus the order header and its line items. Totals are never accepted here;
// they are derived from the catalog.
type OrderInput struct {
	PhoneNumber             int             `json:"phone_number" validate:"required,min=1000000,max=9999999"`
	Address                 string          `json:"address" validate:"required"`
	City                    string          `json:"city" validate:"required"`
	Status                  string          `json:"status" validate:"required"`
	DeliveryType            string          `json:"delivery_type" validate:"required"`
	PaymentMethod           string          `json:"payment_method" validate:"required"`
	TransferReferenceNumber *string         `json:"transfer_reference_number"`
	Items                   []LineItemInput `json:"items" validate:"required,min=1,dive"`
}

// parsedInput is an OrderInput with enumerated fields resolved.
type parsedInput struct {
	phoneNumber             int
	address                 string
	city                    enums.City
	status                  enums.OrderStatus
	deliveryType            enums.DeliveryType
	paymentMethod           enums.PaymentMethod
	transferReferenceNumber *string
	items                   []LineItemInput
}

// parse validates the input and resolves enums. All failing fields are
// collected and reported in one pass, before any write happens.
func (in OrderInput) parse() (*parsedInput, error) {
	details := map[string]string{}

	if err := validate.Struct(in); err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			if fields, ok := typed.Details().(map[string]string); ok {
				for field, msg := range fields {
					details[field] = msg
				}
			}
		}
	}

	out := parsedInput{
		phoneNumber:             in.PhoneNumber,
		address:                 in.Address,
		transferReferenceNumber: in.TransferReferenceNumber,
		items:                   in.Items,
	}

	var err error
	if in.City != "" {
		if out.city, err = enums.ParseCity(in.City); err != nil {
			details["city"] = "is not a served city"
		}
	}
	if in.Status != "" {
		if out.status, err = enums.ParseOrderStatus(in.Status); err != nil {
			details["status"] = "must be pending, completed or cancelled"
		}
	}
	if in.DeliveryType != "" {
		if out.deliveryType, err = enums.ParseDeliveryType(in.DeliveryType); err != nil {
			details["delivery_type"] = "must be delivery or pickup"
		}
	}
	if in.PaymentMethod != "" {
		if out.paymentMethod, err = enums.ParsePaymentMethod(in.PaymentMethod); err != nil {
			details["payment_method"] = "must be transfer, cash or card"
		}
	}

	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return &out, nil
}
