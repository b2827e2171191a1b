// Package validation wraps go-playground/validator with the password policy
// and the French messages shown by the frontend.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// New returns a validator that reports fields by their JSON name and knows
// the strongpassword tag.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return CheckPassword(fl.Field().String()) == nil
	})
	return v
}

// CheckPassword enforces the password policy: at least MinPasswordLength
// characters with an uppercase letter, a digit and a special character.
func CheckPassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	var upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	switch {
	case !upper:
		return errors.New("password must contain an uppercase letter")
	case !digit:
		return errors.New("password must contain a digit")
	case !special:
		return errors.New("password must contain a special character")
	}
	return nil
}

var labels = map[string]string{
	"email":            "L'email",
	"password":         "Le mot de passe",
	"name":             "Le nom",
	"phone":            "Le téléphone",
	"address":          "L'adresse",
	"businessName":     "Le nom de la boutique",
	"description":      "La description",
	"price":            "Le prix",
	"stock":            "Le stock",
	"quantity":         "La quantité",
	"productId":        "Le produit",
	"orderId":          "La commande",
	"method":           "La méthode",
	"account":          "Le compte",
	"amount":           "Le montant",
	"status":           "Le statut",
	"reason":           "Le motif",
	"title":            "Le titre",
	"location":         "Le lieu",
	"startsAt":         "La date de début",
	"endsAt":           "La date de fin",
	"capacity":         "La capacité",
	"seats":            "Le nombre de places",
	"rating":           "La note",
	"shippingAddress":  "L'adresse de livraison",
	"deliveryPersonId": "Le livreur",
	"vehicleType":      "Le type de véhicule",
	"role":             "Le rôle",
}

func label(field string) string {
	if l, ok := labels[field]; ok {
		return l
	}
	return fmt.Sprintf("Le champ %s", field)
}

// Message renders a single field error in French.
func Message(fe validator.FieldError) string {
	l := label(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s est requis", l)
	case "email":
		return fmt.Sprintf("%s est invalide", l)
	case "strongpassword":
		return fmt.Sprintf("%s doit contenir au moins %d caractères, une majuscule, un chiffre et un caractère spécial", l, MinPasswordLength)
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s doit contenir au moins %s caractères", l, fe.Param())
		}
		return fmt.Sprintf("%s doit être supérieur ou égal à %s", l, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s doit contenir au plus %s caractères", l, fe.Param())
		}
		return fmt.Sprintf("%s doit être inférieur ou égal à %s", l, fe.Param())
	case "gt":
		return fmt.Sprintf("%s doit être supérieur à %s", l, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s doit être l'une des valeurs : %s", l, fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s est invalide", l)
	case "gtfield":
		return fmt.Sprintf("%s doit être postérieure à %s", l, strings.ToLower(label(lowerFirst(fe.Param()))))
	default:
		return fmt.Sprintf("%s est invalide (%s)", l, fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Errors is the outcome of a failed validation: the first message plus one
// message per offending field.
type Errors struct {
	Message string
	Fields  map[string]string
}

func (e *Errors) Error() string {
	return e.Message
}

// Struct validates s. It returns nil, an *Errors, or the validator's own
// error for invalid input such as a nil pointer.
func Struct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Errors{Fields: make(map[string]string, len(verrs))}
	for i, fe := range verrs {
		msg := Message(fe)
		if i == 0 {
			out.Message = msg
		}
		out.Fields[fe.Field()] = msg
	}
	return out
}
