package splitter

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/split-transfer-contract/common"
)

const (
	ownerKey  = 'o'
	feeKey    = 'f'
	accPrefix = 'a'

	// feeDivisor is the share of every split payment collected as the
	// protocol fee, 1/feeDivisor.
	feeDivisor = 100

	// hardcoded value to ignore payment notification for transfers made
	// by the split method itself.
	splitPaymentNotification = "\x73\x70"
)

const (
	// ErrWrongCoinSent is thrown when the contract receives a payment
	// that was not attached to a split call.
	ErrWrongCoinSent = "wrong coin sent"
	// ErrWrongFundCoin is thrown when the contract receives a payment
	// in a token other than GAS.
	ErrWrongFundCoin = "wrong fund coin"
	// ErrExceededQuantity is thrown when the requested withdrawal
	// quantity is bigger than the withdrawable amount.
	ErrExceededQuantity = "quantity exceeds withdrawable amount"
	// ErrNotOwner is thrown when fees are withdrawn by a non-owner.
	ErrNotOwner = "sender is not owner"
	// ErrUnauthorized is reserved and not thrown by any method now.
	ErrUnauthorized = "unauthorized"
)

// nolint:unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	tx := runtime.GetScriptContainer()
	storage.Put(ctx, ownerKey, tx.Sender)
	storage.Put(ctx, feeKey, 0)

	runtime.Notify("Instantiate", tx.Sender)
	runtime.Log("splitter contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the contract owner.
func Update(nefFile, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	if !runtime.CheckWitness(contractOwner(ctx)) {
		panic("only owner can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("splitter contract updated")
}

// Split accepts amount of GAS from the caller and splits it between two
// recipients. 1% of the amount is kept by the contract as the protocol fee,
// the rest is divided in half and credited to the withdrawable amounts of
// recipient1 and recipient2. Integer division remainders are not credited
// to anyone and stay on the contract account. Nothing is transferred to the
// recipients at this point, they claim accrued amounts with Withdraw.
//
// The caller must be the owner of the from account. The contract pulls GAS
// by itself, so the from account must have the transfer witnessed, there is
// no need to make a separate payment.
//
// Produces Split notification.
func Split(from interop.Hash160, amount int, recipient1, recipient2 interop.Hash160) {
	common.CheckOwnerWitness(from)

	if amount <= 0 {
		panic(ErrWrongCoinSent)
	}
	checkRecipient(recipient1)
	checkRecipient(recipient2)

	self := runtime.GetExecutingScriptHash()
	transferred := gas.Transfer(from, self, amount, []byte(splitPaymentNotification))
	if !transferred {
		panic("split: failed to transfer funds, aborting")
	}

	ctx := storage.GetContext()

	fee := amount / feeDivisor
	storage.Put(ctx, feeKey, collectedFees(ctx)+fee)

	share := (amount - fee) / 2
	credit(ctx, recipient1, share)
	credit(ctx, recipient2, share)

	runtime.Notify("Split", from, recipient1, recipient2, amount, fee)
	runtime.Log("split: accepted and split the payment")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// The only payments accepted are the ones made by the split method itself,
// they are marked with the data argument. Any other token or a direct
// transfer without the marker is rejected, aborting the transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	caller := runtime.GetCallingScriptHash()
	if !common.BytesEqual(caller, interop.Hash160(gas.Hash)) {
		panic(ErrWrongFundCoin + " (expected GAS, got " + std.Base64Encode(caller) + ")")
	}

	marker := data.(interop.Hash160)
	if !common.BytesEqual(marker, []byte(splitPaymentNotification)) {
		panic(ErrWrongCoinSent)
	}

	runtime.Log("onNEP17Payment: funds have been transferred")
}

// Withdraw transfers GAS accrued by split payments back to the account
// owner. If quantity is nil, the whole withdrawable amount is transferred
// and the account entry is removed from the storage; otherwise exactly
// quantity is transferred and the reduced entry is kept, even if it is
// drained to zero. It panics if the account has never been credited.
//
// Produces Withdraw notification.
func Withdraw(account interop.Hash160, quantity any) {
	common.CheckOwnerWitness(account)

	ctx := storage.GetContext()
	key := accountKey(account)

	data := storage.Get(ctx, key)
	if data == nil {
		panic("withdraw: account not found in the storage")
	}
	amount := data.(int)

	if quantity == nil {
		storage.Delete(ctx, key)
		sendGas(account, amount)
		return
	}

	q := quantity.(int)
	if q < 0 {
		panic("withdraw: negative quantity")
	}
	if q > amount {
		panic(ErrExceededQuantity)
	}

	storage.Put(ctx, key, amount-q)
	sendGas(account, q)
}

// WithdrawFees transfers all fees collected by split payments to the
// contract owner and resets the fee accumulator. It can be invoked only by
// the owner.
//
// Produces Withdraw notification.
func WithdrawFees() {
	ctx := storage.GetContext()

	owner := contractOwner(ctx)
	if !runtime.CheckWitness(owner) {
		panic(ErrNotOwner)
	}

	amount := collectedFees(ctx)
	storage.Put(ctx, feeKey, 0)
	sendGas(owner, amount)
}

// Owner returns the account the contract was deployed by.
func Owner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return contractOwner(ctx)
}

// WithdrawableAmount returns the amount of GAS the given account can
// withdraw. It is zero for accounts that have never been credited.
func WithdrawableAmount(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return withdrawableAmount(ctx, account)
}

// CollectedFees returns the amount of fees collected by split payments and
// not withdrawn by the owner yet.
func CollectedFees() int {
	ctx := storage.GetReadOnlyContext()
	return collectedFees(ctx)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func checkRecipient(recipient interop.Hash160) {
	if len(recipient) != interop.Hash160Len {
		panic("incorrect length of recipient script hash")
	}
}

// credit adds amount to the withdrawable amount of the account, starting
// from zero for accounts not credited before.
func credit(ctx storage.Context, account interop.Hash160, amount int) {
	key := accountKey(account)
	storage.Put(ctx, key, withdrawableAmount(ctx, account)+amount)
}

// sendGas moves GAS from the contract account, so the business logic is
// easy to read.
func sendGas(to interop.Hash160, amount int) {
	self := runtime.GetExecutingScriptHash()
	transferred := gas.Transfer(self, to, amount, nil)
	if !transferred {
		panic("failed to transfer GAS, aborting")
	}

	runtime.Notify("Withdraw", to, amount)
}

func contractOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func withdrawableAmount(ctx storage.Context, account interop.Hash160) int {
	data := storage.Get(ctx, accountKey(account))
	if data != nil {
		return data.(int)
	}

	return 0
}

func collectedFees(ctx storage.Context) int {
	data := storage.Get(ctx, feeKey)
	if data != nil {
		return data.(int)
	}

	return 0
}

func accountKey(account interop.Hash160) []byte {
	return append([]byte{accPrefix}, account...)
}
