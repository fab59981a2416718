package lead

import "errors"

var (
	ErrDuplicateRecord  = errors.New("a record with this phone number and product already exists")
	ErrRecordNotFound   = errors.New("record not found")
	ErrEmptyProduct     = errors.New("product name is empty")
	ErrDuplicateProduct = errors.New("product already exists")
	ErrProductNotFound  = errors.New("product not found")
	ErrProductInUse     = errors.New("a record exists with this product and it cannot be deleted")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidRecord    = errors.New("invalid record")
)
