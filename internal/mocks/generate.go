package mocks

//go:generate mockery --name ObjectStore --srcpkg github.com/s3meta/s3meta/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name ListingTokenStore --srcpkg github.com/s3meta/s3meta/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
