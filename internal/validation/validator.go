package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a cart must never hold two lines for the same product; reject the
	// payload before the merge would silently collapse them
	v.RegisterStructValidation(mergeItemsStructValidation, MergeItemsRequest{})

	return v
}

func mergeItemsStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(MergeItemsRequest)

	seen := map[string]bool{}
	for _, it := range req.Items {
		if seen[it.ID] {
			sl.ReportError(req.Items, "items", "Items", "unique_product_ids", it.ID)
			return
		}
		seen[it.ID] = true
	}
}
