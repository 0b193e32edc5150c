package dto

// ProductInfo is the metadata returned by the external catalog for a barcode.
type ProductInfo struct {
	Name  string  `json:"name"`
	Brand *string `json:"brand"`
	Size  *string `json:"size"`
}
