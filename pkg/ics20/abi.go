package ics20

// ICS20ABI is the subset of the ICS20I precompile interface used by this
// module.
const ICS20ABI = `[
	{
		"type": "function",
		"name": "transfer",
		"stateMutability": "nonpayable",
		"inputs": [
			{"internalType": "string", "name": "sourcePort", "type": "string"},
			{"internalType": "string", "name": "sourceChannel", "type": "string"},
			{"internalType": "string", "name": "denom", "type": "string"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "address", "name": "sender", "type": "address"},
			{"internalType": "string", "name": "receiver", "type": "string"},
			{
				"internalType": "struct Height",
				"name": "timeoutHeight",
				"type": "tuple",
				"components": [
					{"internalType": "uint64", "name": "revisionNumber", "type": "uint64"},
					{"internalType": "uint64", "name": "revisionHeight", "type": "uint64"}
				]
			},
			{"internalType": "uint64", "name": "timeoutTimestamp", "type": "uint64"},
			{"internalType": "string", "name": "memo", "type": "string"}
		],
		"outputs": [
			{"internalType": "uint64", "name": "nextSequence", "type": "uint64"}
		]
	},
	{
		"type": "event",
		"name": "IBCTransfer",
		"anonymous": false,
		"inputs": [
			{"indexed": true, "internalType": "address", "name": "sender", "type": "address"},
			{"indexed": true, "internalType": "string", "name": "receiver", "type": "string"},
			{"indexed": false, "internalType": "string", "name": "sourcePort", "type": "string"},
			{"indexed": false, "internalType": "string", "name": "sourceChannel", "type": "string"},
			{"indexed": false, "internalType": "string", "name": "denom", "type": "string"},
			{"indexed": false, "internalType": "uint256", "name": "amount", "type": "uint256"},
			{"indexed": false, "internalType": "string", "name": "memo", "type": "string"}
		]
	}
]`
