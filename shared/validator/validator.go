package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"reflect"
	"slices"
	"strconv"
	"strings"

	val "github.com/go-playground/validator/v10"

	"hotel/config"
	"hotel/shared/base64"
	"hotel/shared/constant"
	"hotel/shared/failure"
)

var validate *val.Validate

func registerMimetypeValidation(field val.FieldLevel) bool {
	var contentType string

	if file, ok := field.Field().Interface().(multipart.FileHeader); ok {
		contentType = file.Header.Get(constant.RequestHeaderContentType)
	} else if str, ok := field.Field().Interface().(string); ok {
		contentType = base64.GetContentType(str)

		if contentType == "" {
			return false
		}
	}

	return allowedContentType(contentType, field.Param())
}

func allowedContentType(contentType, param string) bool {
	return slices.Contains(strings.Split(param, " "), contentType)
}

func registerFileSizeValidation(field val.FieldLevel) bool {
	fileSize := 0
	if file, ok := field.Field().Interface().(multipart.FileHeader); ok {
		fileSize = int(file.Size)
	} else if str, ok := field.Field().Interface().(string); ok {
		fileSize = len(str)
	}

	maxSizeMB, err := strconv.ParseFloat(field.Param(), 64)
	if err != nil {
		return false
	}

	return fileSize <= megabytes(maxSizeMB)
}

func megabytes(size float64) int {
	const bytesConversion = 1024.0

	return int(size * bytesConversion * bytesConversion)
}

// enumValidation backs the `hotel` tag: the field's own Validate method
// decides, so enum types carry their allowed values with them.
func enumValidation(cfg *config.Config) val.Func {
	return func(fl val.FieldLevel) bool {
		method := fl.Field().MethodByName("Validate")
		if !method.IsValid() {
			return false
		}

		result := method.Call([]reflect.Value{reflect.ValueOf(cfg)})

		return result[0].IsNil()
	}
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	custom := map[string]val.Func{
		"hotel":       enumValidation(config.Get()),
		"empty":       func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
		"mimetypes":   registerMimetypeValidation,
		"maxfilesize": registerFileSizeValidation,
	}

	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body into data and validates it. Both decode and
// validation problems come back as 400 failures.
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	err := decoder.Decode(data)

	if err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

// ImageTypes are the content types accepted for room, banner and gallery uploads.
const ImageTypes = "image/png image/jpg image/jpeg image/webp"

// ValidateFiles checks an uploaded batch: at most maxCount files, each of an
// allowed content type and no larger than maxSizeMB.
func ValidateFiles(files []*multipart.FileHeader, maxCount int, maxSizeMB float64, allowedTypes string) error {
	if maxCount > 0 && len(files) > maxCount {
		return failure.BadRequestFromString(fmt.Sprintf("at most %d files can be uploaded at once", maxCount)) //nolint:wrapcheck
	}

	for _, file := range files {
		if !allowedContentType(file.Header.Get(constant.RequestHeaderContentType), allowedTypes) {
			return failure.BadRequestFromString(fmt.Sprintf("%s must be one of %s", file.Filename, allowedTypes)) //nolint:wrapcheck
		}

		if int(file.Size) > megabytes(maxSizeMB) {
			return failure.BadRequestFromString(fmt.Sprintf("%s must not exceed %gMB", file.Filename, maxSizeMB)) //nolint:wrapcheck
		}
	}

	return nil
}
