package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-pos/internal/domain"
	"github.com/jhoicas/kardex-pos/internal/domain/entity"
)

// newValidator construye el validador de documentos de entrada.
// Los documentos llegan como JSON libre desde otras capas; aquí se convierten en registros estrictos.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// decimal.Decimal como numérico para que gte/gt funcionen sobre cantidades y costos
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// checkStruct valida las etiquetas del documento y traduce el primer fallo a domain.ErrInvalidInput.
func (uc *KardexUseCase) checkStruct(doc any) error {
	err := uc.validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: campo %s no cumple %s", domain.ErrInvalidInput, fe.Namespace(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func (uc *KardexUseCase) validatePurchase(doc entity.PurchaseDocument) error {
	if err := uc.checkStruct(doc); err != nil {
		return err
	}
	if len(doc.Lines) == 0 {
		return fmt.Errorf("%w: el documento de compra no tiene líneas", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *KardexUseCase) validateSale(doc entity.SaleDocument) error {
	if err := uc.checkStruct(doc); err != nil {
		return err
	}
	// sin referencia, dos ventas distintas compartirían uniqueKey y la segunda se perdería
	if strings.TrimSpace(doc.Identification.DocumentRef) == "" {
		return fmt.Errorf("%w: el documento de venta requiere documentRef", domain.ErrInvalidInput)
	}
	if len(doc.Lines) == 0 {
		return fmt.Errorf("%w: el documento de venta no tiene líneas", domain.ErrInvalidInput)
	}
	return nil
}
