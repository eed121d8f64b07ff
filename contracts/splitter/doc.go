/*
Splitter contract is a payment splitting contract for Neo N3.

The contract accepts GAS payments through the split method and divides them
between two recipients named by the payer. 1% of every payment is kept as
the protocol fee available to the contract owner, the rest is divided in
half; both halves are escrowed on the contract account and credited to the
withdrawable amounts of the recipients. Remainders of the integer divisions
stay on the contract account and are not credited to anyone. Recipients
claim their accruals with the withdraw method, either partially or in full,
and the owner claims collected fees with the withdrawFees method. The owner
is the account that deployed the contract.

Direct NEP-17 transfers to the contract are rejected: GAS enters the
contract only through the split method and only leaves it through the
withdraw methods.

# Contract notifications

Instantiate notification. Produced once, when the contract is deployed.

	Instantiate:
	  - name: owner
	    type: Hash160

Split notification. Produced on every accepted split payment.

	Split:
	  - name: from
	    type: Hash160
	  - name: recipient1
	    type: Hash160
	  - name: recipient2
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: fee
	    type: Integer

Withdraw notification. Produced on every transfer of escrowed GAS out of
the contract, both recipient withdrawals and owner fee withdrawals.

	Withdraw:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package splitter
