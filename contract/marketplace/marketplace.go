// Bindings for the subset of the Marketplace contract ABI used by the marketplace client, written in
// the layout abigen produces.

package marketplace

import (
	"errors"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// Reference imports to suppress errors if they are not otherwise used.
var (
	_ = errors.New
	_ = big.NewInt
	_ = strings.NewReader
	_ = ethereum.NotFound
	_ = bind.Bind
	_ = common.Big1
	_ = types.BloomLookup
	_ = event.NewSubscription
)

// MarketplaceListing is a low-level Go binding around an user-defined struct.
type MarketplaceListing struct {
	Owner         common.Address
	User          common.Address
	NftContract   common.Address
	TokenId       *big.Int
	PricePerDay   *big.Int
	StartDateUNIX *big.Int
	EndDateUNIX   *big.Int
	Expires       *big.Int
}

// MarketplaceMetaData contains all meta data concerning the Marketplace contract.
var MarketplaceMetaData = &bind.MetaData{
	ABI: "[{\"inputs\":[],\"name\":\"getAllListings\",\"outputs\":[{\"components\":[{\"internalType\":\"address\",\"name\":\"owner\",\"type\":\"address\"},{\"internalType\":\"address\",\"name\":\"user\",\"type\":\"address\"},{\"internalType\":\"address\",\"name\":\"nftContract\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"tokenId\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"pricePerDay\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"startDateUNIX\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"endDateUNIX\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"expires\",\"type\":\"uint256\"}],\"internalType\":\"structMarketplace.Listing[]\",\"name\":\"\",\"type\":\"tuple[]\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[],\"name\":\"getListingFee\",\"outputs\":[{\"internalType\":\"uint256\",\"name\":\"\",\"type\":\"uint256\"}],\"stateMutability\":\"view\",\"type\":\"function\"},{\"inputs\":[{\"internalType\":\"address\",\"name\":\"nftContract\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"tokenId\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"pricePerDay\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"startDateUNIX\",\"type\":\"uint256\"},{\"internalType\":\"uint256\",\"name\":\"endDateUNIX\",\"type\":\"uint256\"}],\"name\":\"listNFT\",\"outputs\":[],\"stateMutability\":\"payable\",\"type\":\"function\"},{\"inputs\":[{\"internalType\":\"address\",\"name\":\"nftContract\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"tokenId\",\"type\":\"uint256\"},{\"internalType\":\"uint64\",\"name\":\"expires\",\"type\":\"uint64\"}],\"name\":\"rentNFT\",\"outputs\":[],\"stateMutability\":\"payable\",\"type\":\"function\"},{\"inputs\":[{\"internalType\":\"address\",\"name\":\"nftContract\",\"type\":\"address\"},{\"internalType\":\"uint256\",\"name\":\"tokenId\",\"type\":\"uint256\"}],\"name\":\"unlistNFT\",\"outputs\":[],\"stateMutability\":\"payable\",\"type\":\"function\"}]",
}

// Marketplace is a Go binding around an Ethereum contract.
type Marketplace struct {
	MarketplaceCaller     // Read-only binding to the contract
	MarketplaceTransactor // Write-only binding to the contract
	MarketplaceFilterer   // Log filterer for contract events
}

// MarketplaceCaller is a read-only Go binding around an Ethereum contract.
type MarketplaceCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// MarketplaceTransactor is a write-only Go binding around an Ethereum contract.
type MarketplaceTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// MarketplaceFilterer is a log filtering Go binding around an Ethereum contract events.
type MarketplaceFilterer struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewMarketplace creates a new instance of Marketplace, bound to a specific deployed contract.
func NewMarketplace(address common.Address, backend bind.ContractBackend) (*Marketplace, error) {
	contract, err := bindMarketplace(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Marketplace{MarketplaceCaller: MarketplaceCaller{contract: contract}, MarketplaceTransactor: MarketplaceTransactor{contract: contract}, MarketplaceFilterer: MarketplaceFilterer{contract: contract}}, nil
}

// bindMarketplace binds a generic wrapper to an already deployed contract.
func bindMarketplace(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := MarketplaceMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, *parsed, caller, transactor, filterer), nil
}

// GetAllListings is a free data retrieval call binding the contract method 0xae73ccec.
//
// Solidity: function getAllListings() view returns((address,address,address,uint256,uint256,uint256,uint256,uint256)[])
func (_Marketplace *MarketplaceCaller) GetAllListings(opts *bind.CallOpts) ([]MarketplaceListing, error) {
	var out []interface{}
	err := _Marketplace.contract.Call(opts, &out, "getAllListings")

	if err != nil {
		return *new([]MarketplaceListing), err
	}

	out0 := *abi.ConvertType(out[0], new([]MarketplaceListing)).(*[]MarketplaceListing)

	return out0, err

}

// GetListingFee is a free data retrieval call binding the contract method 0xb8fe6abe.
//
// Solidity: function getListingFee() view returns(uint256)
func (_Marketplace *MarketplaceCaller) GetListingFee(opts *bind.CallOpts) (*big.Int, error) {
	var out []interface{}
	err := _Marketplace.contract.Call(opts, &out, "getListingFee")

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err

}

// ListNFT is a paid mutator transaction binding the contract method 0x7e943afd.
//
// Solidity: function listNFT(address nftContract, uint256 tokenId, uint256 pricePerDay, uint256 startDateUNIX, uint256 endDateUNIX) payable returns()
func (_Marketplace *MarketplaceTransactor) ListNFT(opts *bind.TransactOpts, nftContract common.Address, tokenId *big.Int, pricePerDay *big.Int, startDateUNIX *big.Int, endDateUNIX *big.Int) (*types.Transaction, error) {
	return _Marketplace.contract.Transact(opts, "listNFT", nftContract, tokenId, pricePerDay, startDateUNIX, endDateUNIX)
}

// RentNFT is a paid mutator transaction binding the contract method 0x9a34f003.
//
// Solidity: function rentNFT(address nftContract, uint256 tokenId, uint64 expires) payable returns()
func (_Marketplace *MarketplaceTransactor) RentNFT(opts *bind.TransactOpts, nftContract common.Address, tokenId *big.Int, expires uint64) (*types.Transaction, error) {
	return _Marketplace.contract.Transact(opts, "rentNFT", nftContract, tokenId, expires)
}

// UnlistNFT is a paid mutator transaction binding the contract method 0x7fc27efd.
//
// Solidity: function unlistNFT(address nftContract, uint256 tokenId) payable returns()
func (_Marketplace *MarketplaceTransactor) UnlistNFT(opts *bind.TransactOpts, nftContract common.Address, tokenId *big.Int) (*types.Transaction, error) {
	return _Marketplace.contract.Transact(opts, "unlistNFT", nftContract, tokenId)
}
