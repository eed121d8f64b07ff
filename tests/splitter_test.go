package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/split-transfer-contract/common"
	"github.com/nspcc-dev/split-transfer-contract/contracts/splitter"
	"github.com/stretchr/testify/require"
)

const splitterPath = "../contracts/splitter"

func newSplitterInvoker(t *testing.T) *neotest.ContractInvoker {
	e := newExecutor(t)
	ctr := neotest.CompileFile(t, e.CommitteeHash, splitterPath, path.Join(splitterPath, "config.yml"))
	e.DeployContract(t, ctr, nil)
	return e.CommitteeInvoker(ctr.Hash)
}

// gasBalance returns the GAS balance of the account in raw units.
func gasBalance(t *testing.T, c *neotest.ContractInvoker, acc util.Uint160) int64 {
	gasInvoker := c.CommitteeInvoker(c.NativeHash(t, nativenames.Gas))
	res, err := gasInvoker.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	return res.Top().BigInt().Int64()
}

func splitPayment(t *testing.T, c *neotest.ContractInvoker, sender neotest.Signer, amount int64, r1, r2 util.Uint160) {
	c.WithSigners(sender).Invoke(t, stackitem.Null{}, "split", sender.ScriptHash(), amount, r1, r2)
}

func TestDeploy(t *testing.T) {
	c := newSplitterInvoker(t)

	// deployment transaction sender becomes the owner
	c.Invoke(t, stackitem.NewBuffer(c.CommitteeHash.BytesBE()), "owner")
	c.Invoke(t, 0, "collectedFees")
	c.Invoke(t, common.Version, "version")
}

func TestSplit(t *testing.T) {
	c := newSplitterInvoker(t)

	sender := c.NewAccount(t)
	person1 := c.NewAccount(t).ScriptHash()
	person2 := c.NewAccount(t).ScriptHash()

	splitPayment(t, c, sender, 200, person1, person2)

	c.Invoke(t, 99, "withdrawableAmount", person1)
	c.Invoke(t, 99, "withdrawableAmount", person2)
	c.Invoke(t, 2, "collectedFees")
	require.EqualValues(t, 200, gasBalance(t, c, c.Hash))

	// accruals of repeated splits to the same recipients add up
	splitPayment(t, c, sender, 200, person1, person2)

	c.Invoke(t, 198, "withdrawableAmount", person1)
	c.Invoke(t, 198, "withdrawableAmount", person2)
	c.Invoke(t, 4, "collectedFees")
	require.EqualValues(t, 400, gasBalance(t, c, c.Hash))
}

func TestSplitRounding(t *testing.T) {
	c := newSplitterInvoker(t)

	sender := c.NewAccount(t)
	person1 := c.NewAccount(t).ScriptHash()
	person2 := c.NewAccount(t).ScriptHash()

	// 150 = 1 (fee) + 74 + 74 + 1 residue that stays on the contract
	// account with no withdrawable entry
	splitPayment(t, c, sender, 150, person1, person2)

	c.Invoke(t, 74, "withdrawableAmount", person1)
	c.Invoke(t, 74, "withdrawableAmount", person2)
	c.Invoke(t, 1, "collectedFees")
	require.EqualValues(t, 150, gasBalance(t, c, c.Hash))

	// 101 = 1 (fee) + 50 + 50, no residue
	splitPayment(t, c, sender, 101, person1, person2)

	c.Invoke(t, 124, "withdrawableAmount", person1)
	c.Invoke(t, 124, "withdrawableAmount", person2)
	c.Invoke(t, 2, "collectedFees")
	require.EqualValues(t, 251, gasBalance(t, c, c.Hash))
}

func TestSplitFail(t *testing.T) {
	c := newSplitterInvoker(t)

	sender := c.NewAccount(t)
	other := c.NewAccount(t)
	person1 := c.NewAccount(t).ScriptHash()
	person2 := c.NewAccount(t).ScriptHash()

	cSender := c.WithSigners(sender)

	cSender.InvokeFail(t, splitter.ErrWrongCoinSent, "split",
		sender.ScriptHash(), 0, person1, person2)
	cSender.InvokeFail(t, common.ErrOwnerWitnessFailed, "split",
		other.ScriptHash(), 200, person1, person2)
	cSender.InvokeFail(t, "incorrect length of recipient script hash", "split",
		sender.ScriptHash(), 200, []byte{1, 2, 3}, person2)

	c.Invoke(t, 0, "withdrawableAmount", person1)
	c.Invoke(t, 0, "collectedFees")
}

func TestDirectPayments(t *testing.T) {
	c := newSplitterInvoker(t)

	// GAS sent around the split method is not accepted
	gasInvoker := c.CommitteeInvoker(c.NativeHash(t, nativenames.Gas))
	gasInvoker.InvokeFail(t, splitter.ErrWrongCoinSent, "transfer",
		c.CommitteeHash, c.Hash, 100, nil)

	// neither is any other token
	neoInvoker := c.CommitteeInvoker(c.NativeHash(t, nativenames.Neo))
	neoInvoker.InvokeFail(t, splitter.ErrWrongFundCoin, "transfer",
		c.CommitteeHash, c.Hash, 1, nil)

	require.EqualValues(t, 0, gasBalance(t, c, c.Hash))
}

func TestWithdraw(t *testing.T) {
	c := newSplitterInvoker(t)

	sender := c.NewAccount(t)
	person1 := c.NewAccount(t)
	person2 := c.NewAccount(t)

	splitPayment(t, c, sender, 200, person1.ScriptHash(), person2.ScriptHash())

	cPerson1 := c.WithSigners(person1)
	cPerson2 := c.WithSigners(person2)

	// partial withdrawal keeps the rest of the accrual
	cPerson1.Invoke(t, stackitem.Null{}, "withdraw", person1.ScriptHash(), 50)
	c.Invoke(t, 49, "withdrawableAmount", person1.ScriptHash())
	require.EqualValues(t, 150, gasBalance(t, c, c.Hash))

	cPerson1.InvokeFail(t, splitter.ErrExceededQuantity, "withdraw",
		person1.ScriptHash(), 50)
	cPerson1.InvokeFail(t, "negative quantity", "withdraw",
		person1.ScriptHash(), -1)
	c.Invoke(t, 49, "withdrawableAmount", person1.ScriptHash())

	// withdrawal without a quantity takes everything and removes the entry
	cPerson1.Invoke(t, stackitem.Null{}, "withdraw", person1.ScriptHash(), nil)
	c.Invoke(t, 0, "withdrawableAmount", person1.ScriptHash())
	require.EqualValues(t, 101, gasBalance(t, c, c.Hash))

	cPerson1.InvokeFail(t, "account not found in the storage", "withdraw",
		person1.ScriptHash(), nil)

	// an entry drained by an exact quantity is kept around
	cPerson2.Invoke(t, stackitem.Null{}, "withdraw", person2.ScriptHash(), 99)
	c.Invoke(t, 0, "withdrawableAmount", person2.ScriptHash())
	cPerson2.Invoke(t, stackitem.Null{}, "withdraw", person2.ScriptHash(), nil)
	cPerson2.InvokeFail(t, "account not found in the storage", "withdraw",
		person2.ScriptHash(), nil)

	cPerson2.InvokeFail(t, common.ErrOwnerWitnessFailed, "withdraw",
		person1.ScriptHash(), nil)
}

func TestWithdrawNeverCredited(t *testing.T) {
	c := newSplitterInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, "account not found in the storage", "withdraw",
		acc.ScriptHash(), nil)
	cAcc.InvokeFail(t, "account not found in the storage", "withdraw",
		acc.ScriptHash(), 1)

	// the query is more forgiving than the withdrawal
	c.Invoke(t, 0, "withdrawableAmount", acc.ScriptHash())
}

func TestWithdrawFees(t *testing.T) {
	c := newSplitterInvoker(t)

	sender := c.NewAccount(t)
	person1 := c.NewAccount(t)
	person2 := c.NewAccount(t)

	splitPayment(t, c, sender, 200, person1.ScriptHash(), person2.ScriptHash())
	c.Invoke(t, 2, "collectedFees")

	cPerson1 := c.WithSigners(person1)
	cPerson1.InvokeFail(t, splitter.ErrNotOwner, "withdrawFees")
	c.Invoke(t, 2, "collectedFees")

	// owner signs with the committee account
	c.Invoke(t, stackitem.Null{}, "withdrawFees")
	c.Invoke(t, 0, "collectedFees")
	require.EqualValues(t, 198, gasBalance(t, c, c.Hash))

	// nothing left to collect, but the call is still fine
	c.Invoke(t, stackitem.Null{}, "withdrawFees")
	c.Invoke(t, 0, "collectedFees")
}

func TestUpdateAccess(t *testing.T) {
	c := newSplitterInvoker(t)

	acc := c.NewAccount(t)
	cAcc := c.WithSigners(acc)

	cAcc.InvokeFail(t, "only owner can update contract", "update",
		[]byte{}, []byte{}, nil)
}
