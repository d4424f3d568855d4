package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zippz/fulfillment-service/internal/models"
)

// Fixed fulfillment routing for the single supported store.
const (
	carrierCode   = "stamps_com"
	serviceCode   = "usps_first_class_mail"
	packageCode   = "package"
	confirmation  = "delivery"
	warehouseID   = 638301
	storeID       = 300914
	submitUserID  = "50ad70dd-4b1f-421a-bb4f-39c792d41690"
	customerNotes = "Please ship the product as as soon as possible!"
)

// Line-item name markers used to classify purchased products.
const (
	markerTrial = "Trial"
	markerCalm  = "CalmZ"
	markerSleep = "SleepZ"
)

const webhookDateLayout = "2006-01-02T15:04:05"

// ErrNotShippable marks a record that cannot be fulfilled as received;
// ingestion skips it and continues.
var ErrNotShippable = errors.New("record is not shippable")

// WebhookOrder mirrors the WooCommerce order webhook payload, reduced
// to the fields the pipeline consumes.
type WebhookOrder struct {
	ID           int64             `json:"id"`
	CustomerID   int64             `json:"customer_id"`
	OrderKey     string            `json:"order_key"`
	DateCreated  string            `json:"date_created"`
	DateModified string            `json:"date_modified"`
	Billing      WebhookBilling    `json:"billing"`
	LineItems    []WebhookLineItem `json:"line_items"`
}

// WebhookBilling is the nested billing block
type WebhookBilling struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// WebhookLineItem is one purchased line
type WebhookLineItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	ProductID int64  `json:"product_id"`
}

// FromWebhook normalizes a webhook payload into the canonical customer
// order plus the fulfillment payload skeleton for the same purchase.
// The payload is returned explicitly; nothing is stashed for later.
func FromWebhook(w WebhookOrder) (models.CustomerOrder, models.ShipStationOrder, error) {
	if len(w.LineItems) == 0 {
		return models.CustomerOrder{}, models.ShipStationOrder{}, fmt.Errorf("%w: no line items", ErrNotShippable)
	}
	if w.Billing.Email == "" {
		return models.CustomerOrder{}, models.ShipStationOrder{}, fmt.Errorf("%w: missing billing email", ErrNotShippable)
	}

	var packs, packSKUs, calms, sleeps []string
	for _, item := range w.LineItems {
		if strings.Contains(item.Name, markerTrial) {
			packs = append(packs, item.Name)
			packSKUs = append(packSKUs, item.SKU)
		}
		if strings.Contains(item.Name, markerCalm) {
			calms = append(calms, NormalizeLineItemName(item.Name))
		}
		if strings.Contains(item.Name, markerSleep) {
			sleeps = append(sleeps, NormalizeLineItemName(item.Name))
		}
	}
	if len(packs) == 0 {
		return models.CustomerOrder{}, models.ShipStationOrder{}, fmt.Errorf("%w: no trial pack line item", ErrNotShippable)
	}

	created, err := time.Parse(webhookDateLayout, w.DateCreated)
	if err != nil {
		return models.CustomerOrder{}, models.ShipStationOrder{}, fmt.Errorf("parse date_created %q: %w", w.DateCreated, err)
	}
	dateOrder := created.Format("01/02/2006")
	dateTitle := created.Format("January 2, 2006")

	orderNo := strconv.FormatInt(w.ID, 10)
	order := models.CustomerOrder{
		First:       w.Billing.FirstName,
		Last:        w.Billing.LastName,
		Email:       w.Billing.Email,
		Street1:     w.Billing.Address1,
		Street2:     w.Billing.Address2,
		City:        w.Billing.City,
		State:       w.Billing.State,
		Zip:         w.Billing.Postcode,
		Pack:        packs[0],
		Sleep1:      pick(sleeps, 0),
		Sleep2:      pick(sleeps, 1),
		Calm1:       pick(calms, 0),
		Calm2:       pick(calms, 1),
		UUID:        orderNo,
		OrderNumber: orderNo,
		DateOrder:   dateOrder,
		DateTitle:   dateTitle,
	}

	first := w.LineItems[0]
	items := []models.ShipStationItem{{
		OrderItemID: first.ID,
		SKU:         packSKUs[0],
		Name:        first.Name,
		Quantity:    first.Quantity,
		UnitPrice:   first.Subtotal,
		Options:     []any{},
		ProductID:   first.ProductID,
		CreateDate:  w.DateCreated,
		ModifyDate:  w.DateModified,
	}}

	addr := models.ShipStationAddress{
		Name:       w.Billing.FirstName + " " + w.Billing.LastName,
		Street1:    w.Billing.Address1,
		Street2:    w.Billing.Address2,
		City:       w.Billing.City,
		State:      w.Billing.State,
		PostalCode: w.Billing.Postcode,
		Country:    w.Billing.Country,
	}

	payload := models.ShipStationOrder{
		OrderNumber:      orderNo,
		OrderKey:         orderNo,
		OrderDate:        dateOrder,
		PaymentDate:      dateOrder,
		OrderStatus:      "awaiting_shipment",
		CustomerID:       w.CustomerID,
		BillTo:           addr,
		ShipTo:           addr,
		Items:            items,
		CustomerNotes:    customerNotes,
		CarrierCode:      carrierCode,
		ServiceCode:      serviceCode,
		PackageCode:      packageCode,
		Confirmation:     confirmation,
		Weight:           models.Weight{Value: 15.00, Units: "ounces", WeightUnits: 1},
		Dimensions:       models.Dimensions{Units: "inches", Length: 5.00, Width: 7.00, Height: 3.00},
		InsuranceOptions: models.InsuranceOptions{InsureShipment: false, InsuredValue: 0.0},
		AdvancedOptions: models.AdvancedOptions{
			WarehouseID: warehouseID,
			MergedIDs:   []int64{},
			StoreID:     storeID,
			Source:      "None",
		},
		UserID: submitUserID,
	}
	return order, payload, nil
}

// NormalizeLineItemName turns a storefront product name ("CalmZ C34")
// into its canonical code ("calm34"): spaces removed, the family
// marker "Z" and the strength letter after it dropped, lowercased.
func NormalizeLineItemName(name string) string {
	s := strings.ReplaceAll(name, " ", "")
	if i := strings.IndexAny(s, "Zz"); i >= 0 {
		if i+2 <= len(s) {
			s = s[:i] + s[i+2:]
		} else {
			s = s[:i]
		}
	}
	return strings.ToLower(s)
}

func pick(values []string, idx int) string {
	if idx < len(values) {
		return values[idx]
	}
	return ""
}
