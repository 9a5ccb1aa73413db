package covault

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/covault/covault/errors"
)

// ToABCI converts our internal check result into an abci response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// ToABCI converts our internal deliver result into an abci response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckOrError returns an abci response for CheckTx,
// converting the error message if present, or using the successful result
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverOrError returns an abci response for DeliverTx,
// converting the error message if present, or using the successful result
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// ParseCheckOrError is the inverse of CheckOrError. It parses the abci
// response back into the internal format, or returns the error of a
// failed tx.
func ParseCheckOrError(res abci.ResponseCheckTx) (*CheckResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &CheckResult{
		Data:         res.Data,
		Log:          res.Log,
		GasAllocated: res.GasWanted,
	}, nil
}

// ParseDeliverOrError is the inverse of DeliverOrError. It parses the
// abci response back into the internal format, or returns the error of
// a failed tx.
func ParseDeliverOrError(res abci.ResponseDeliverTx) (*DeliverResult, error) {
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return &DeliverResult{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}, nil
}

// DeliverTxError converts any error into an abci response
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseDeliverTx{
		Code: code,
		Log:  log,
	}
}

// CheckTxError converts any error into an abci response
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errors.ABCIInfo(err, debug)
	return abci.ResponseCheckTx{
		Code: code,
		Log:  log,
	}
}
