package checkout

import "solemart/models"

// ShippingOptions is the static carrier table. There is no live carrier
// integration; cost and estimate are fixed per service.
var ShippingOptions = []models.ShippingService{
	{Name: "JNE Regular", Cost: 15000, EstimatedDays: "3-4 hari"},
	{Name: "JNE Express", Cost: 25000, EstimatedDays: "1-2 hari"},
	{Name: "JNT Regular", Cost: 12000, EstimatedDays: "3-5 hari"},
	{Name: "JNT Express", Cost: 22000, EstimatedDays: "2-3 hari"},
	{Name: "SiCepat Regular", Cost: 13000, EstimatedDays: "2-4 hari"},
	{Name: "SiCepat Express", Cost: 23000, EstimatedDays: "1-2 hari"},
}

// PaymentMethods holds the accepted labels. Payment is a label only; no
// gateway is involved.
var PaymentMethods = []string{"COD", "Bank Transfer", "E-Wallet", "Credit Card"}

// shippingByName resolves a service from the table so the client cannot
// submit a tampered cost.
func shippingByName(name string) (models.ShippingService, bool) {
	for _, s := range ShippingOptions {
		if s.Name == name {
			return s, true
		}
	}
	return models.ShippingService{}, false
}

func validPaymentMethod(method string) bool {
	for _, m := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}
