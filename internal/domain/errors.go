package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyEvent se devuelve cuando un evento no tiene mercados abiertos.
	ErrEmptyEvent = errors.New("event has no markets")

	// ErrMalformedResponse marca un payload sin los datos esperados.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrMissingCredentials se devuelve al llamar endpoints de portfolio sin clave.
	ErrMissingCredentials = errors.New("missing API credentials")
)

// TransportError es un fallo de red: conexión, timeout o lectura del body.
// La orden puede o no haber llegado al exchange.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return e.Op + ": transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError es una respuesta HTTP de error (≥400) del exchange.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Code, e.Body)
}

// Retryable devuelve true para 429 y 5xx.
func (e *StatusError) Retryable() bool {
	return e.Code == 429 || e.Code >= 500
}

// MalformedResponseError es un payload que no contiene los datos esperados.
// Raw guarda el body tal cual para el anomaly log.
type MalformedResponseError struct {
	Op  string
	Raw []byte
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return e.Op + ": malformed response: " + e.Err.Error()
	}
	return e.Op + ": malformed response"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

// ConfigError es un error de configuración, nunca recuperable.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsTransport devuelve true si err es (o envuelve) un TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsRejected devuelve true si err es (o envuelve) un StatusError.
func IsRejected(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// ClassifyOrderError traduce el error de un envío de orden a un LegOutcome.
// Cualquier error que no sea de estado HTTP cuenta como fallo de transporte.
func ClassifyOrderError(err error) LegOutcome {
	switch {
	case err == nil:
		return LegPlaced
	case IsRejected(err):
		return LegRejected
	default:
		return LegTransportFailed
	}
}
