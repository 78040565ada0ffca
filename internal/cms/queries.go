package cms

// GROQ projections. Image fields project the referenced asset so that
// image.Resolver can work without a second round trip.

const assetProjection = `asset->{_id, _ref, _type, url}`

const productListProjection = `{
  _id,
  title,
  slug,
  description,
  price,
  compareAtPrice,
  "mainImage": images[0]{ image{ ` + assetProjection + ` }, alt, caption },
  category,
  tags,
  featured,
  inStock,
  _createdAt,
  _updatedAt
}`

// ProductsListQuery lists every product, featured first then newest.
const ProductsListQuery = `*[_type == "product"] | order(featured desc, _createdAt desc)` + productListProjection

// ProductBySlugQuery fetches one product with its gallery and localized
// detail fields.
const ProductBySlugQuery = `*[_type == "product" && slug.current == $slug][0]{
  _id,
  title,
  titleUrdu,
  slug,
  description,
  descriptionUrdu,
  detailedDescription,
  detailedDescriptionUrdu,
  price,
  compareAtPrice,
  "mainImage": images[0]{ image{ ` + assetProjection + ` }, alt, caption },
  "gallery": images[1..-1]{ image{ ` + assetProjection + ` }, alt },
  category,
  tags,
  featured,
  inStock,
  specifications[]{ name, nameUrdu, value, valueUrdu },
  features,
  applications,
  videoUrl,
  _createdAt,
  _updatedAt
}`

// FeaturedProductsQuery returns up to six featured products.
const FeaturedProductsQuery = `*[_type == "product" && featured == true] | order(_createdAt desc)[0...6]` + productListProjection

// CategoriesQuery returns the distinct product categories.
const CategoriesQuery = `array::unique(*[_type == "product" && defined(category)].category) | order(@ asc)`

// HomePageQuery fetches the home page singleton.
const HomePageQuery = `*[_type == "homePage"][0]{
  title,
  heroSection{ badge, heading, description, ctaButtons[]{ text, link, isPrimary } },
  bannerSlider{ images[]{ image{ ` + assetProjection + ` }, alt, title }, autoSlideInterval },
  stats[]{ number, label },
  aboutSection{ badge, heading, description, factoryImage{ ` + assetProjection + ` }, features[]{ icon, title, color } },
  productsSection{ badge, heading, description, featuredProducts[]{ title, description, image{ ` + assetProjection + ` }, accent } },
  seo{ metaTitle, metaDescription, ogImage{ ` + assetProjection + ` } }
}`

// AboutPageQuery fetches the about page singleton.
const AboutPageQuery = `*[_type == "aboutPage"][0]{
  title,
  heroSection{ heading, description, backgroundImage{ ` + assetProjection + ` } },
  companyHistory,
  mission,
  vision,
  values[]{ icon, title, description },
  milestones[]{ year, title, description },
  team[]{ name, position, bio, image{ ` + assetProjection + ` } },
  certifications[]{ name, description, image{ ` + assetProjection + ` } }
}`

// ContactPageQuery fetches the contact page singleton.
const ContactPageQuery = `*[_type == "contactPage"][0]{
  title,
  description,
  contactInfo{ address, phone, email, workingHours },
  socialLinks{ facebook, twitter, linkedin, instagram },
  mapLocation{ lat, lng }
}`

// ProbeQuery is the cheapest query that proves the dataset answers.
const ProbeQuery = `count(*[_type == "product"][0...1])`

// Query is a GROQ query plus its parameters.
type Query struct {
	GROQ   string
	Params map[string]any
}

// ProductsList lists all products.
func ProductsList() Query { return Query{GROQ: ProductsListQuery} }

// ProductBySlug fetches a single product.
func ProductBySlug(slug string) Query {
	return Query{GROQ: ProductBySlugQuery, Params: map[string]any{"slug": slug}}
}

// FeaturedProducts lists featured products.
func FeaturedProducts() Query { return Query{GROQ: FeaturedProductsQuery} }

// Categories lists product categories.
func Categories() Query { return Query{GROQ: CategoriesQuery} }

// Page fetches the singleton document for a page.
func Page(groq string) Query { return Query{GROQ: groq} }
