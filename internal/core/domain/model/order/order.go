package order

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// ErrorReasonMaxLength caps the stored failure reason. Longer reasons are
// truncated, not rejected, so a verbose upstream error can never block a
// status transition.
const ErrorReasonMaxLength = 500

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	orderNumberPattern = regexp.MustCompile(`^ORD-\d{6}$`)
	productSKUPattern  = regexp.MustCompile(`^SKU-[A-Za-z0-9]{8}$`)
	emailPattern       = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)
)

// Order represents one line item of an uploaded batch. It is the aggregate
// root tracking the item through the processing pipeline.
//
// Invariants:
//   - identity, batch reference, and all row fields are validated on creation
//   - the order number has the form ORD-DDDDDD and the SKU SKU-XXXXXXXX
//   - quantity is at least 1
//   - status transitions are monotonic along Pending -> Processing ->
//     (Completed | Failed); terminal states are final
//   - the error reason is set only together with the Failed status
type Order struct {
	id            kernel.UUID
	batchID       kernel.UUID
	orderNumber   string
	customerEmail string
	productSKU    string
	quantity      int
	address       string
	city          string
	status        Status
	errorReason   string
	createdAt     time.Time
	processedAt   *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order bound to the given batch.
// All fields are validated; validation failures are joined so a malformed
// input row reports every problem at once.
func NewOrder(
	id kernel.UUID,
	batchID kernel.UUID,
	orderNumber string,
	customerEmail string,
	productSKU string,
	quantity int,
	address string,
	city string,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setBatchID(batchID),
		o.setOrderNumber(orderNumber),
		o.setCustomerEmail(customerEmail),
		o.setProductSKU(productSKU),
		o.setQuantity(quantity),
		o.setAddress(address),
		o.setCity(city),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation workflow. The stored status and timestamps are trusted but still
// checked for basic consistency.
func RestoreOrder(
	id kernel.UUID,
	batchID kernel.UUID,
	orderNumber string,
	customerEmail string,
	productSKU string,
	quantity int,
	address string,
	city string,
	status Status,
	errorReason string,
	createdAt time.Time,
	processedAt *time.Time,
) (*Order, error) {
	o, err := NewOrder(id, batchID, orderNumber, customerEmail, productSKU, quantity, address, city)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}

	o.status = status
	o.errorReason = errorReason
	o.createdAt = createdAt
	o.processedAt = processedAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// BatchID returns the identifier of the owning batch.
func (o *Order) BatchID() kernel.UUID {
	return o.batchID
}

// OrderNumber returns the human-facing order identifier (ORD-DDDDDD).
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerEmail returns the customer's email address.
func (o *Order) CustomerEmail() string {
	return o.customerEmail
}

// ProductSKU returns the product SKU (SKU-XXXXXXXX).
func (o *Order) ProductSKU() string {
	return o.productSKU
}

// Quantity returns the ordered quantity.
func (o *Order) Quantity() int {
	return o.quantity
}

// Address returns the delivery street address.
func (o *Order) Address() string {
	return o.address
}

// City returns the delivery city.
func (o *Order) City() string {
	return o.city
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// ErrorReason returns the stored failure reason, empty unless Failed.
func (o *Order) ErrorReason() string {
	return o.errorReason
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// ProcessedAt returns the time the order reached a terminal status,
// or nil while it is still in flight.
func (o *Order) ProcessedAt() *time.Time {
	return o.processedAt
}

// StartProcessing marks the order as picked up by the pipeline consumer.
func (o *Order) StartProcessing() error {
	newStatus, err := o.status.StartProcessing()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete marks the order as successfully processed. Terminal.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.markProcessed()
	return nil
}

// Fail marks the order as failed with a human-readable reason. Terminal.
// The reason is truncated to ErrorReasonMaxLength.
func (o *Order) Fail(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return errs.NewValueIsRequiredError("error reason")
	}

	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}

	if len(reason) > ErrorReasonMaxLength {
		reason = reason[:ErrorReasonMaxLength]
	}

	o.status = newStatus
	o.errorReason = reason
	o.markProcessed()
	return nil
}

func (o *Order) markProcessed() {
	now := time.Now().UTC()
	o.processedAt = &now
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBatchID(batchID kernel.UUID) error {
	if err := batchID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("batch ID", err)
	}
	o.batchID = batchID
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if !orderNumberPattern.MatchString(orderNumber) {
		return errs.NewValueIsInvalidErrorWithCause("order number",
			fmt.Errorf("%q does not match ORD-DDDDDD", orderNumber))
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerEmail(customerEmail string) error {
	if !emailPattern.MatchString(customerEmail) {
		return errs.NewValueIsInvalidErrorWithCause("customer email",
			fmt.Errorf("%q is not a valid email address", customerEmail))
	}
	o.customerEmail = customerEmail
	return nil
}

func (o *Order) setProductSKU(productSKU string) error {
	if !productSKUPattern.MatchString(productSKU) {
		return errs.NewValueIsInvalidErrorWithCause("product SKU",
			fmt.Errorf("%q does not match SKU-XXXXXXXX", productSKU))
	}
	o.productSKU = productSKU
	return nil
}

func (o *Order) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	o.quantity = quantity
	return nil
}

func (o *Order) setAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return errs.NewValueIsRequiredError("address")
	}
	o.address = address
	return nil
}

func (o *Order) setCity(city string) error {
	if strings.TrimSpace(city) == "" {
		return errs.NewValueIsRequiredError("city")
	}
	o.city = city
	return nil
}
